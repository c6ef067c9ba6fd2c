package http

import (
	"bytes"
	"net/http"

	"beginnings/internal/logging"
	"beginnings/internal/pages"
)

// PageHandler serves the host pages with their widgets filled in.
type PageHandler struct {
	Site  Site
	Pages *pages.Builder
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.Home())
}

func (h *PageHandler) Admissions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pages.Admissions())
}

func (h *PageHandler) Location(w http.ResponseWriter, r *http.Request) {
	sc := h.Site.Current()
	if sc == nil {
		http.Error(w, "site data not loaded", http.StatusServiceUnavailable)
		return
	}
	req, ok := pages.Location(sc, r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, req)
}

func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.serve(w, r, pages.Contact(h.Site.Current(), pages.ContactQuery{
		Status:    q.Get("inquiry"),
		Reference: q.Get("ref"),
		Location:  q.Get("location"),
	}))
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, req pages.Request) {
	log := logging.From(r.Context())

	var buf bytes.Buffer
	outcomes, err := h.Pages.Build(h.Site.Current(), req, &buf)
	if err != nil {
		log.Error("page.render", "template", req.Template, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	logOutcomes(log, r.URL.Path, outcomes)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
