package middleware

import (
	"net/http"
	"strings"

	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWT rejects requests without a valid bearer token and stores the caller's
// user id in the request context.
func JWT(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				transport.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			uid, err := v.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(InjectUserID(r.Context(), uid)))
		})
	}
}
