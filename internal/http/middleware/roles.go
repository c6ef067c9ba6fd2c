package middleware

import (
	"net/http"

	"beginnings/internal/auth"
)

// RequireRole rejects anonymous requests with 401 and signed-in admins whose
// role does not cover required with 403.
func RequireRole(required string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := Claims(r)
		if c == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !auth.Allows(c.Role, required) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
