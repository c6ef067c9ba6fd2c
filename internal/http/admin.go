package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"beginnings/internal/admins"
	"beginnings/internal/auth"
	"beginnings/internal/http/middleware"
	"beginnings/internal/inquiry"
	"beginnings/internal/logging"
)

const sessionTTL = 12 * time.Hour

// AdminHandler serves the staff endpoints: sign-in, data reload and the
// inquiry inbox.
type AdminHandler struct {
	Site          Site
	Admins        admins.Store
	Inquiries     inquiry.Store
	Signer        *auth.Signer
	LoginLimiter  *middleware.RateLimiter
	TrustProxy    bool
	SecureCookies bool
}

func (h *AdminHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/login", h.Login)
	mux.HandleFunc("POST /admin/logout", h.Logout)
	mux.Handle("GET /admin/me", middleware.RequireAuth(http.HandlerFunc(h.Me)))
	mux.Handle("POST /admin/reload", middleware.RequireRole(auth.RoleEditor, http.HandlerFunc(h.Reload)))
	mux.Handle("GET /admin/inquiries", middleware.RequireRole(auth.RoleAdmin, http.HandlerFunc(h.ListInquiries)))
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResp struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type reloadResp struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Locations   int    `json:"locations"`
	Programs    int    `json:"programs"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readLogin accepts either a JSON body or a regular form post.
func readLogin(r *http.Request) (loginReq, error) {
	var req loginReq
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}
	req.Username = strings.TrimSpace(req.Username)
	return req, nil
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logging.From(r.Context())
	if !h.LoginLimiter.Allow(middleware.ClientIP(r, h.TrustProxy)) {
		http.Error(w, "too many attempts", http.StatusTooManyRequests)
		return
	}
	if h.Admins == nil || h.Signer == nil {
		http.Error(w, "admin sign-in unavailable", http.StatusServiceUnavailable)
		return
	}
	req, err := readLogin(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	a, err := h.Admins.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, admins.ErrNotFound) {
		log.Error("admin.lookup", "err", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err != nil || !auth.CheckPassword(req.Password, a.PasswordHash) {
		log.Warn("admin.login_failed", "username", req.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Signer.IssueToken(a.ID, a.Role)
	if err != nil {
		log.Error("admin.token", "err", err)
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	log.Info("admin.login", "admin", a.ID, "role", a.Role)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	c := middleware.Claims(r)
	resp := meResp{ID: c.Subject, Role: c.Role}
	if c.ExpiresAt != nil {
		resp.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reload fetches the datasets again. A failed reload keeps serving the
// previous data and answers 502.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	log := logging.From(r.Context())
	if err := h.Site.Reload(r.Context()); err != nil {
		log.Warn("admin.reload_failed", "admin", middleware.AdminID(r), "err", err)
		writeJSON(w, http.StatusBadGateway, reloadResp{OK: false, Error: err.Error()})
		return
	}
	resp := reloadResp{OK: true}
	if sc := h.Site.Current(); sc != nil {
		resp.LastUpdated = sc.Openings.LastUpdated
		resp.Locations = sc.Config.Locations.Len()
		resp.Programs = sc.Config.Programs.Len()
	}
	log.Info("admin.reload", "admin", middleware.AdminID(r))
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	if h.Inquiries == nil {
		http.Error(w, "inquiries unavailable", http.StatusServiceUnavailable)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Inquiries.List(ctx, limit)
	if err != nil {
		logging.From(r.Context()).Error("admin.inquiries", "err", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []inquiry.Inquiry{}
	}
	writeJSON(w, http.StatusOK, list)
}
