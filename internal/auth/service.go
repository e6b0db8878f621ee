package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"gitea.jw6.us/james/daygrid/internal/config"
)

// Service verifies the ambient session credential. Sessions are issued by an
// external identity provider; this service only checks that the cookie holds
// a valid ID token for our client.
type Service struct {
	cookieName string
	verifier   *oidc.IDTokenVerifier
}

func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDC.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover OIDC provider: %w", err)
	}

	return &Service{
		cookieName: cfg.Session.CookieName,
		verifier:   provider.Verifier(&oidc.Config{ClientID: cfg.OIDC.ClientID}),
	}, nil
}

// RequireSession rejects requests without a valid session cookie and enriches
// the context with the verified subject and the raw credential.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		idToken, err := s.verifier.Verify(r.Context(), cookie.Value)
		if err != nil {
			http.Error(w, "invalid session", http.StatusUnauthorized)
			return
		}

		ctx := WithSubject(r.Context(), idToken.Subject)
		ctx = WithSessionCredential(ctx, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
