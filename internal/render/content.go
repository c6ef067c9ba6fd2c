package render

import (
	"html/template"

	"beginnings/internal/page"
	"beginnings/internal/site"
)

type stepView struct {
	Number      site.StepNumber
	Title       string
	Description template.HTML
}

type testimonialView struct {
	Quote   template.HTML
	Author  string
	Details string
}

func (r *Renderer) richText(s string) template.HTML {
	return template.HTML(r.rich.Sanitize(s))
}

func (r *Renderer) ProcessStepsFragment(sc *site.Context) (string, Outcome, error) {
	out := Outcome{Widget: WidgetProcessSteps, Status: StatusNoData}
	if sc == nil {
		return "", out, nil
	}
	steps := sc.Content.Steps()
	if len(steps) == 0 {
		return "", out, nil
	}
	views := make([]stepView, 0, len(steps))
	for _, s := range steps {
		views = append(views, stepView{
			Number:      s.Number,
			Title:       s.Title,
			Description: r.richText(s.Description),
		})
	}
	markup, err := r.execute("widget/steps", views)
	if err != nil {
		return "", out, err
	}
	out.Status = StatusRendered
	out.Rows = len(views)
	return markup, out, nil
}

// ProcessSteps renders the enrollment steps in content order.
func (r *Renderer) ProcessSteps(sc *site.Context, doc *page.Document, id string) Outcome {
	if !doc.Has(id) {
		return missingContainer(WidgetProcessSteps, id)
	}
	markup, out, err := r.ProcessStepsFragment(sc)
	return r.fill(doc, id, out, markup, err)
}

func (r *Renderer) TestimonialsFragment(sc *site.Context) (string, Outcome, error) {
	out := Outcome{Widget: WidgetTestimonials, Status: StatusNoData}
	if sc == nil || len(sc.Content.Testimonials) == 0 {
		return "", out, nil
	}
	views := make([]testimonialView, 0, len(sc.Content.Testimonials))
	for _, t := range sc.Content.Testimonials {
		views = append(views, testimonialView{
			Quote:   r.richText(t.Quote),
			Author:  t.Author,
			Details: t.Details,
		})
	}
	markup, err := r.execute("widget/testimonials", views)
	if err != nil {
		return "", out, err
	}
	out.Status = StatusRendered
	out.Rows = len(views)
	return markup, out, nil
}

func (r *Renderer) Testimonials(sc *site.Context, doc *page.Document, id string) Outcome {
	if !doc.Has(id) {
		return missingContainer(WidgetTestimonials, id)
	}
	markup, out, err := r.TestimonialsFragment(sc)
	return r.fill(doc, id, out, markup, err)
}
