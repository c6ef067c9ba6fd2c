package render

import (
	"beginnings/internal/page"
	"beginnings/internal/site"
)

// Binding attaches one widget to one container of a host document.
type Binding struct {
	Widget    Widget
	Container string
	Mode      Mode
	Location  string
}

// Pipeline is the ordered set of widgets a host page receives.
type Pipeline []Binding

// Apply runs every binding against doc and then emits structured data. Each
// binding is independent: a skipped or failed widget does not stop the rest.
func (r *Renderer) Apply(sc *site.Context, doc *page.Document, p Pipeline) []Outcome {
	outcomes := make([]Outcome, 0, len(p)+1)
	for _, b := range p {
		var out Outcome
		switch b.Widget {
		case WidgetOpenings:
			out = r.Openings(sc, doc, b.Container, b.Mode, b.Location)
		case WidgetBadges:
			out = r.Badges(sc, doc, b.Container, b.Location)
		case WidgetProcessSteps:
			out = r.ProcessSteps(sc, doc, b.Container)
		case WidgetTestimonials:
			out = r.Testimonials(sc, doc, b.Container)
		default:
			r.logger.Warn("render.unknown_widget", "widget", b.Widget, "container", b.Container)
			continue
		}
		outcomes = append(outcomes, out)
	}
	outcomes = append(outcomes, r.StructuredData(sc, doc))
	return outcomes
}

// Page pipelines used by the site's host documents.
var (
	HomePipeline = Pipeline{
		{Widget: WidgetOpenings, Container: "openings-home", Mode: ModeSummary},
		{Widget: WidgetProcessSteps, Container: "enrollment-process"},
		{Widget: WidgetTestimonials, Container: "testimonials"},
	}
	AdmissionsPipeline = Pipeline{
		{Widget: WidgetOpenings, Container: "openings-admissions", Mode: ModeFull},
		{Widget: WidgetProcessSteps, Container: "enrollment-process"},
	}
)

func LocationPipeline(location string) Pipeline {
	return Pipeline{
		{Widget: WidgetBadges, Container: "openings-badges", Location: location},
		{Widget: WidgetOpenings, Container: "openings-location", Mode: ModeFull, Location: location},
	}
}
