package render

import (
	"beginnings/internal/page"
	"beginnings/internal/site"
)

// BadgesFragment renders the compact badge strip for a single location.
func (r *Renderer) BadgesFragment(sc *site.Context, location string) (string, Outcome, error) {
	out := Outcome{Widget: WidgetBadges, Status: StatusNoData}
	res := sc.OpeningsFor(location)
	if !res.Found {
		return "", out, nil
	}
	rows := programRows(sc.Config.Programs, res.Openings, false)
	markup, err := r.execute("widget/badges", rows)
	if err != nil {
		return "", out, err
	}
	out.Status = StatusRendered
	out.Sections = 1
	out.Rows = len(rows)
	return markup, out, nil
}

func (r *Renderer) Badges(sc *site.Context, doc *page.Document, id, location string) Outcome {
	if !doc.Has(id) {
		return missingContainer(WidgetBadges, id)
	}
	markup, out, err := r.BadgesFragment(sc, location)
	return r.fill(doc, id, out, markup, err)
}
