package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"beginnings/internal/admins"
	"beginnings/internal/auth"
	"beginnings/internal/http/middleware"
	"beginnings/internal/inquiry"
	"beginnings/internal/logging"
	"beginnings/internal/notify"
	"beginnings/internal/pages"
	"beginnings/internal/render"
	"beginnings/internal/site"
	"beginnings/resources"
)

// Site is the live dataset: the loader store in production.
type Site interface {
	Current() *site.Context
	Reload(ctx context.Context) error
}

type Deps struct {
	Site    Site
	Pages   *pages.Builder
	Widgets *render.Renderer

	// Inquiries and Admins are nil when the database is disabled.
	Inquiries inquiry.Store
	Admins    admins.Store
	Signer    *auth.Signer
	Notifier  notify.Notifier

	InquiryLimiter *middleware.RateLimiter
	LoginLimiter   *middleware.RateLimiter
	TrustProxy     bool
	SecureCookies  bool
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	ph := &PageHandler{Site: d.Site, Pages: d.Pages}
	mux.HandleFunc("GET /{$}", ph.Home)
	mux.HandleFunc("GET /admissions", ph.Admissions)
	mux.HandleFunc("GET /locations/{id}", ph.Location)
	mux.HandleFunc("GET /contact", ph.Contact)

	fh := &FragmentHandler{Site: d.Site, Widgets: d.Widgets}
	mux.HandleFunc("GET /fragments/openings", fh.Openings)
	mux.HandleFunc("GET /fragments/badges", fh.Badges)
	mux.HandleFunc("GET /fragments/steps", fh.Steps)
	mux.HandleFunc("GET /fragments/testimonials", fh.Testimonials)
	mux.HandleFunc("GET /structured-data", fh.StructuredData)

	mux.Handle("POST /inquiries", &InquiryHandler{
		Store:      d.Inquiries,
		Notifier:   d.Notifier,
		Limiter:    d.InquiryLimiter,
		TrustProxy: d.TrustProxy,
	})

	ah := &AdminHandler{
		Site:          d.Site,
		Admins:        d.Admins,
		Inquiries:     d.Inquiries,
		Signer:        d.Signer,
		LoginLimiter:  d.LoginLimiter,
		TrustProxy:    d.TrustProxy,
		SecureCookies: d.SecureCookies,
	}
	ah.Routes(mux)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(resources.FS)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Site == nil || d.Site.Current() == nil {
			http.Error(w, "site data not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux
}

func WithStandardMiddleware(next http.Handler, signer *auth.Signer) http.Handler {
	return requestLogger(securityHeaders(middleware.WithAuth(signer)(next)))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logging.With(r.Context(), "request_id", id)

		ww := &wrapWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r.WithContext(ctx))
		logging.From(ctx).Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type wrapWriter struct {
	http.ResponseWriter
	status int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logOutcomes records what each widget did for one request.
func logOutcomes(log *slog.Logger, path string, outcomes []render.Outcome) {
	for _, o := range outcomes {
		if o.Status == render.StatusFailed {
			log.Warn("page.widget_failed", "path", path, "widget", o.Widget, "container", o.Container)
			continue
		}
		log.Debug("page.widget", "path", path, "widget", o.Widget, "container", o.Container,
			"status", o.Status, "sections", o.Sections, "rows", o.Rows)
	}
}
