package http

import (
	"encoding/json"
	"net/http"

	"beginnings/internal/logging"
	"beginnings/internal/render"
	"beginnings/internal/site"
)

// FragmentHandler serves bare widget markup for hosts that embed widgets
// themselves. X-Widget-Status carries the outcome; nothing to show is 204.
type FragmentHandler struct {
	Site    Site
	Widgets *render.Renderer
}

func (h *FragmentHandler) Openings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.write(w, r, func(sc *site.Context) (string, render.Outcome, error) {
		return h.Widgets.OpeningsFragment(sc, render.ParseMode(q.Get("mode")), q.Get("location"))
	})
}

func (h *FragmentHandler) Badges(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		http.Error(w, "location is required", http.StatusBadRequest)
		return
	}
	h.write(w, r, func(sc *site.Context) (string, render.Outcome, error) {
		return h.Widgets.BadgesFragment(sc, location)
	})
}

func (h *FragmentHandler) Steps(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.Widgets.ProcessStepsFragment)
}

func (h *FragmentHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.Widgets.TestimonialsFragment)
}

func (h *FragmentHandler) StructuredData(w http.ResponseWriter, r *http.Request) {
	sc := h.Site.Current()
	if sc == nil {
		http.Error(w, "site data not loaded", http.StatusServiceUnavailable)
		return
	}
	docs := h.Widgets.LocationDocuments(sc)
	if docs == nil {
		docs = []render.LocationDocument{}
	}
	w.Header().Set("Content-Type", "application/ld+json")
	if err := json.NewEncoder(w).Encode(docs); err != nil {
		logging.From(r.Context()).Warn("fragment.structured_data", "err", err)
	}
}

func (h *FragmentHandler) write(w http.ResponseWriter, r *http.Request, fragment func(*site.Context) (string, render.Outcome, error)) {
	markup, out, err := fragment(h.Site.Current())
	if err != nil {
		logging.From(r.Context()).Error("fragment.render", "widget", out.Widget, "err", err)
		w.Header().Set("X-Widget-Status", string(render.StatusFailed))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Widget-Status", string(out.Status))
	if !out.Rendered() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(markup))
}
