// Package pages composes host documents: it renders a page template, then
// runs the page's widget pipeline over the resulting document.
package pages

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"beginnings/internal/page"
	"beginnings/internal/render"
	"beginnings/internal/site"
	"beginnings/internal/web"
)

type Builder struct {
	TPL      *web.Renderer
	Widgets  *render.Renderer
	SiteName string
}

// Request describes one page to build.
type Request struct {
	Template string
	Title    string
	Path     string
	Content  any
	Pipeline render.Pipeline
}

type HomeContent struct {
	Title string
	Lead  string
}

type LocationContent struct {
	Key      string
	Location *site.Location
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type ContactContent struct {
	Title     string
	Status    string
	Reference string
	Locations []Option
	Programs  []Option
	DOBMin    string
	DOBMax    string
}

// ContactQuery carries the contact page's query parameters.
type ContactQuery struct {
	Status    string // result of the last submission: ok, error, limited, missing
	Reference string
	Location  string // preselected location key
	Today     time.Time
}

// oldestChild bounds the date of birth accepted on the contact form.
const oldestChild = 5

// Build writes the finished document to w and reports what every widget did.
func (b *Builder) Build(sc *site.Context, req Request, w io.Writer) ([]render.Outcome, error) {
	var host bytes.Buffer
	data := web.Page[any]{Header: b.header(sc, req), Content: req.Content}
	if err := b.TPL.Render(&host, req.Template, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Template, err)
	}
	doc, err := page.Parse(&host)
	if err != nil {
		return nil, err
	}
	outcomes := b.Widgets.Apply(sc, doc, req.Pipeline)
	if err := doc.Render(w); err != nil {
		return outcomes, fmt.Errorf("write %s: %w", req.Template, err)
	}
	return outcomes, nil
}

func (b *Builder) header(sc *site.Context, req Request) web.HeaderData {
	nav := []web.NavLink{
		{Label: "Home", Href: "/"},
		{Label: "Admissions", Href: "/admissions"},
	}
	if sc != nil {
		sc.Config.Locations.Each(func(_ string, loc site.Location) {
			nav = append(nav, web.NavLink{Label: loc.Name, Href: LocationPath(loc)})
		})
	}
	nav = append(nav, web.NavLink{Label: "Contact", Href: "/contact"})
	for i := range nav {
		nav[i].Active = nav[i].Href == req.Path
	}
	return web.HeaderData{SiteName: b.SiteName, Title: req.Title, Nav: nav}
}

func LocationPath(loc site.Location) string {
	return "/locations/" + loc.ID
}

func Home() Request {
	return Request{
		Template: "home",
		Title:    "Home",
		Path:     "/",
		Content: HomeContent{
			Title: "Play-based early learning in Seattle",
			Lead:  "Infant, toddler and preschool programs at two neighborhood schools.",
		},
		Pipeline: render.HomePipeline,
	}
}

func Admissions() Request {
	return Request{
		Template: "admissions",
		Title:    "Admissions",
		Path:     "/admissions",
		Content: HomeContent{
			Title: "Admissions",
			Lead:  "Current availability across our schools, updated by our directors.",
		},
		Pipeline: render.AdmissionsPipeline,
	}
}

// Location builds the page for the location whose identifier is id. It
// reports false when no configured location has that identifier.
func Location(sc *site.Context, id string) (Request, bool) {
	if sc == nil {
		return Request{}, false
	}
	var (
		key   string
		found *site.Location
	)
	sc.Config.Locations.Each(func(k string, loc site.Location) {
		if found == nil && loc.ID == id {
			l := loc
			key, found = k, &l
		}
	})
	if found == nil {
		return Request{}, false
	}
	return Request{
		Template: "location",
		Title:    found.Name,
		Path:     LocationPath(*found),
		Content:  LocationContent{Key: key, Location: found},
		Pipeline: render.LocationPipeline(key),
	}, true
}

func Contact(sc *site.Context, q ContactQuery) Request {
	today := q.Today
	if today.IsZero() {
		today = time.Now()
	}
	content := ContactContent{
		Title:     "Contact us",
		Status:    q.Status,
		Reference: q.Reference,
		DOBMin:    today.AddDate(-oldestChild, 0, 0).Format(time.DateOnly),
		DOBMax:    today.Format(time.DateOnly),
	}
	if sc != nil {
		sc.Config.Locations.Each(func(k string, loc site.Location) {
			content.Locations = append(content.Locations, Option{Value: k, Label: loc.Name, Selected: k == q.Location})
		})
		sc.Config.Programs.Each(func(k string, p site.Program) {
			content.Programs = append(content.Programs, Option{Value: k, Label: p.Name + " (" + p.AgeRange + ")"})
		})
	}
	return Request{
		Template: "contact",
		Title:    "Contact",
		Path:     "/contact",
		Content:  content,
	}
}

// Output is one page of a static build and its file name.
type Output struct {
	File    string
	Request Request
}

// All lists every page of the site.
func All(sc *site.Context) []Output {
	out := []Output{
		{File: "index.html", Request: Home()},
		{File: path.Join("admissions", "index.html"), Request: Admissions()},
	}
	if sc != nil {
		sc.Config.Locations.Each(func(_ string, loc site.Location) {
			if req, ok := Location(sc, loc.ID); ok {
				out = append(out, Output{File: path.Join("locations", loc.ID, "index.html"), Request: req})
			}
		})
	}
	out = append(out, Output{File: path.Join("contact", "index.html"), Request: Contact(sc, ContactQuery{})})
	return out
}
