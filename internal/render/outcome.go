package render

// Status says why a widget call did or did not write markup.
type Status string

const (
	StatusRendered         Status = "rendered"
	StatusMissingContainer Status = "skipped-missing-container"
	StatusNoData           Status = "skipped-no-data"
	StatusFailed           Status = "failed"
)

// Outcome is returned by every widget call.
type Outcome struct {
	Widget    Widget `json:"widget"`
	Container string `json:"container,omitempty"`
	Status    Status `json:"status"`
	Sections  int    `json:"sections,omitempty"`
	Rows      int    `json:"rows,omitempty"`
}

func (o Outcome) Rendered() bool { return o.Status == StatusRendered }

type Widget string

const (
	WidgetOpenings       Widget = "openings"
	WidgetBadges         Widget = "badges"
	WidgetProcessSteps   Widget = "process-steps"
	WidgetTestimonials   Widget = "testimonials"
	WidgetStructuredData Widget = "structured-data"
)
