package auth

import (
	"context"
	"net/http"
	"strings"

	"tinytribe-backend/internal/logger"
)

type contextKey struct{}

// IdentityFromContext returns the verified identity, if the request carried
// a valid token.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Middleware verifies bearer tokens on incoming requests.
type Middleware struct {
	verifier Verifier
}

func NewMiddleware(verifier Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Require rejects requests without a valid token.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.identify(r)
		if err != nil {
			http.Error(w, "invalid or missing token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// Optional attaches the identity when a valid token is present but lets
// unauthenticated requests through. The deep link endpoint needs this: an
// invite can arrive before the user has signed in.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.identify(r)
		if err == nil {
			r = r.WithContext(context.WithValue(r.Context(), contextKey{}, id))
		} else if bearerToken(r) != "" {
			logger.Debug("Ignoring invalid token on optional-auth endpoint", "path", r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) identify(r *http.Request) (Identity, error) {
	token := bearerToken(r)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	return m.verifier.Verify(r.Context(), token)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return header
}
