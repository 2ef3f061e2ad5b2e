package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_catalog/internal/auth"
	"github.com/fjod/go_catalog/internal/domain"
)

// TokenVerifier turns a raw header token into a principal.
// Consumers define this interface, not the JWT implementation.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// NewAuthMiddleware guards mutating routes. It rejects before any
// handler work happens, so a bad token never touches the repositories.
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := verifier.Verify(r.Header.Get("x-auth-token"))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					respondError(w, http.StatusUnauthorized, "No token, denied")
					return
				}
				respondError(w, http.StatusBadRequest, "Token is not valid")
				return
			}

			ctx := withIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
