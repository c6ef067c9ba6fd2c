package render

import (
	"strings"

	"beginnings/internal/page"
	"beginnings/internal/site"
)

// Mode selects how much detail the openings widget shows.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeFull    Mode = "full"
)

// ParseMode accepts "summary" or "full"; anything else is summary.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeFull {
		return ModeFull
	}
	return ModeSummary
}

type openingsView struct {
	LastUpdated string
	Sections    []locationSection
}

type locationSection struct {
	Key  string
	Name string
	Rows []openingRow
}

type openingRow struct {
	Key        string
	Program    string
	AgeRange   string
	Status     string
	BadgeClass string
	Note       string
}

// programRows merges the configured programs, in configuration order, with the
// openings present for one location.
func programRows(programs site.Ordered[site.Program], openings map[string]site.Opening, withNotes bool) []openingRow {
	var rows []openingRow
	programs.Each(func(key string, p site.Program) {
		op, ok := openings[key]
		if !ok {
			return
		}
		row := openingRow{
			Key:        key,
			Program:    p.Name,
			AgeRange:   p.AgeRange,
			Status:     op.StatusText,
			BadgeClass: op.BadgeColor.Class(),
		}
		if withNotes {
			row.Note = op.Note
		}
		rows = append(rows, row)
	})
	return rows
}

func buildOpenings(sc *site.Context, mode Mode, filter string) openingsView {
	view := openingsView{LastUpdated: sc.Openings.LastUpdated}

	keys := sc.Config.Locations.Keys()
	if filter != "" {
		keys = nil
		if _, ok := sc.Config.Locations.Get(filter); ok {
			keys = []string{filter}
		}
	}

	for _, key := range keys {
		res := sc.OpeningsFor(key)
		if !res.Found {
			continue
		}
		rows := programRows(sc.Config.Programs, res.Openings, mode == ModeFull)
		loc, _ := sc.Config.Locations.Get(key)
		view.Sections = append(view.Sections, locationSection{Key: key, Name: loc.Name, Rows: rows})
	}
	return view
}

// OpeningsFragment renders the openings widget for all locations, or only for
// filter when it is non-empty. An unknown filter renders the widget with no
// location sections.
func (r *Renderer) OpeningsFragment(sc *site.Context, mode Mode, filter string) (string, Outcome, error) {
	out := Outcome{Widget: WidgetOpenings, Status: StatusNoData}
	if sc == nil {
		return "", out, nil
	}
	view := buildOpenings(sc, mode, filter)
	markup, err := r.execute("widget/openings", view)
	if err != nil {
		return "", out, err
	}
	out.Status = StatusRendered
	out.Sections = len(view.Sections)
	for _, s := range view.Sections {
		out.Rows += len(s.Rows)
	}
	return markup, out, nil
}

// Openings replaces the content of container id with the openings widget.
func (r *Renderer) Openings(sc *site.Context, doc *page.Document, id string, mode Mode, filter string) Outcome {
	if !doc.Has(id) {
		return missingContainer(WidgetOpenings, id)
	}
	markup, out, err := r.OpeningsFragment(sc, mode, filter)
	return r.fill(doc, id, out, markup, err)
}
