package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"gitea.jw6.us/james/daygrid/internal/auth"
)

// ErrUnauthorized indicates the token provider rejected the ambient session
// credential or none was present on the request.
var ErrUnauthorized = errors.New("calendar authorization failed")

// CredentialProvider yields a bearer token for provider calls. It is the
// single injected credential capability; nothing else in the codebase touches
// the ambient session.
type CredentialProvider interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// SessionTokenProvider exchanges the session cookie carried in the request
// context for an access token via the configured token endpoint.
type SessionTokenProvider struct {
	endpoint   string
	cookieName string
	httpClient *http.Client
}

func NewSessionTokenProvider(endpoint, cookieName string) *SessionTokenProvider {
	return &SessionTokenProvider{
		endpoint:   endpoint,
		cookieName: cookieName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Token fetches {access_token} from the token endpoint, forwarding the
// session credential stored in ctx by the auth middleware.
func (p *SessionTokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	credential := auth.SessionCredentialFromContext(ctx)
	if credential == "" {
		return nil, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: p.cookieName, Value: credential})

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, ErrUnauthorized
	}

	return &oauth2.Token{AccessToken: body.AccessToken, TokenType: "Bearer"}, nil
}
