package middleware

import (
	"net/http"
	"strings"

	"github.com/fomo-app/fomo/internal/identity"
)

// Auth puts bearer token from Authorization header into request context.
// Requests without token pass as anonymous; handlers decide whether a session is required.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if len(h) > len("bearer ") && strings.EqualFold(h[:len("bearer ")], "bearer ") {
			token := strings.TrimSpace(h[len("bearer "):])
			r = r.WithContext(identity.WithToken(r.Context(), token))
		}

		next.ServeHTTP(w, r)
	})
}
