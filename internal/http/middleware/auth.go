package middleware

import (
	"context"
	"net/http"

	"beginnings/internal/auth"
)

type ctxKey string

const (
	CtxClaims ctxKey = "claims"

	SessionCookie = "session"
)

// WithAuth attaches the claims of a valid session cookie to the request.
// Requests without one pass through anonymously.
func WithAuth(signer *auth.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" || signer == nil {
				next.ServeHTTP(w, r)
				return
			}
			if claims, err := signer.ParseToken(c.Value); err == nil {
				ctx := context.WithValue(r.Context(), CtxClaims, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Claims(r) != nil {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func Claims(r *http.Request) *auth.Claims {
	if v, ok := r.Context().Value(CtxClaims).(*auth.Claims); ok {
		return v
	}
	return nil
}

// AdminID returns the signed-in admin, or "" for anonymous requests.
func AdminID(r *http.Request) string {
	if c := Claims(r); c != nil {
		return c.Subject
	}
	return ""
}
