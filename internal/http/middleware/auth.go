package middlewarex

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"chargesync/internal/config"
)

// BearerAuth guards a route group with a static bearer token. The comparison
// is constant-time; an empty configured token disables the group entirely.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, "endpoint disabled", http.StatusForbidden)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			given := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIAuth guards the /api/v1 surface.
func APIAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return BearerAuth(cfg.Sec.APIToken)
}

// AdminAuth guards the /admin surface.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return BearerAuth(cfg.Sec.AdminToken)
}
