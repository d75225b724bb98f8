package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zidan444/blog-app/app/auth"
)

// TokenVerifier resolves a token to an identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticator attaches the caller's identity to the request context.
type Authenticator struct {
	tokens TokenVerifier
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator
func NewAuthenticator(tokens TokenVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, logger: logger}
}

// AttachIfPresent adds the identity from a valid token cookie to the request
// context. Requests without a usable token pass through unchanged.
func (a *Authenticator) AttachIfPresent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token != "" {
			id, err := a.tokens.Verify(token)
			switch {
			case err == nil:
				r = r.WithContext(auth.WithIdentity(r.Context(), id))
			case !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrRevokedToken):
				a.logger.Error("token verification failed", slog.String("error", err.Error()))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without an identity. Browsers are redirected
// to the login page; JSON callers get a 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			if WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
