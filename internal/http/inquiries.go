package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"beginnings/internal/http/middleware"
	"beginnings/internal/inquiry"
	"beginnings/internal/logging"
	"beginnings/internal/notify"
)

// InquiryHandler accepts the contact form and always answers with a redirect
// back to the contact page carrying the result.
type InquiryHandler struct {
	Store      inquiry.Store
	Notifier   notify.Notifier
	Limiter    *middleware.RateLimiter
	TrustProxy bool
}

func contactRedirect(w http.ResponseWriter, r *http.Request, status, ref string) {
	q := url.Values{"inquiry": {status}}
	if ref != "" {
		q.Set("ref", ref)
	}
	http.Redirect(w, r, "/contact?"+q.Encode(), http.StatusSeeOther)
}

func (h *InquiryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.From(r.Context())
	ip := middleware.ClientIP(r, h.TrustProxy)

	if !h.Limiter.Allow(ip) {
		log.Warn("inquiry.rate_limited", "ip", ip)
		contactRedirect(w, r, "limited", "")
		return
	}
	if err := r.ParseForm(); err != nil {
		contactRedirect(w, r, "error", "")
		return
	}
	in, err := inquiry.FromForm(r.PostForm)
	if errors.Is(err, inquiry.ErrMissingContact) {
		contactRedirect(w, r, "missing", "")
		return
	}
	if h.Store == nil {
		log.Error("inquiry.store_disabled")
		contactRedirect(w, r, "error", "")
		return
	}
	in.ClientIP = ip

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	saved, err := h.Store.Create(ctx, in)
	if err != nil {
		log.Error("inquiry.create", "err", err)
		contactRedirect(w, r, "error", "")
		return
	}
	log.Info("inquiry.created", "id", saved.ID, "location", saved.Location, "program", saved.Program)

	if h.Notifier != nil {
		h.Notifier.NotifyAdmins(ctx, saved.Summary())
	}
	contactRedirect(w, r, "ok", saved.ID.String())
}
