package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Default scopes requested on the consent redirect when the config names none.
var defaultScopes = []string{"user-read-private", "user-read-email"}

// TokenClient talks to the provider's token endpoint with HTTP Basic client
// authentication and form-encoded grants.
type TokenClient struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

// NewTokenClient builds a TokenClient from Spotify application credentials.
// Returns an error when client id, secret, or redirect URI are missing.
func NewTokenClient(cfg shared.SpotifyConfig, client *http.Client) (*TokenClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &TokenClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: client,
		now:        time.Now,
	}, nil
}

// AuthURL returns the provider consent URL for the given anti-forgery state.
func (tc *TokenClient) AuthURL(state string) string {
	return tc.config.AuthCodeURL(state)
}

// tokenResponse is the provider token endpoint's JSON body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExchangeCode trades a single-use authorization code for a complete
// Credential. Codes expire quickly, so failures are terminal and no retry is
// attempted. A non-200 response maps to [shared.ErrInvalidGrant]; a transport
// failure maps to [shared.ErrRequestFailed].
func (tc *TokenClient) ExchangeCode(ctx context.Context, code string) (Credential, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {tc.config.RedirectURL},
	}

	body, status, err := tc.post(ctx, form)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrRequestFailed, err)
	}
	if status != http.StatusOK {
		return Credential{}, fmt.Errorf("%w: status %d", shared.ErrInvalidGrant, status)
	}

	return tc.credential(body, "", shared.ErrRequestFailed)
}

// Refresh mints a new access token from a previously issued refresh token.
// The prior refresh token is retained when the provider omits one from the
// response. Any failure maps to [shared.ErrRefreshFailed] and is terminal for
// the calling request; a rejected refresh token does not become valid on
// immediate retry.
func (tc *TokenClient) Refresh(ctx context.Context, refreshToken string) (Credential, error) {
	if refreshToken == "" {
		return Credential{}, fmt.Errorf("%w: no refresh token", shared.ErrRefreshFailed)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	body, status, err := tc.post(ctx, form)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if status != http.StatusOK {
		return Credential{}, fmt.Errorf("%w: status %d", shared.ErrRefreshFailed, status)
	}

	return tc.credential(body, refreshToken, shared.ErrRefreshFailed)
}

// post sends a form-encoded grant to the token endpoint with Basic client auth.
func (tc *TokenClient) post(ctx context.Context, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(tc.config.ClientID, tc.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// credential parses a 200 token response. ExpiresAt is issuance time plus the
// provider-declared lifetime; priorRefresh fills in when the response omits a
// refresh token.
func (tc *TokenClient) credential(body []byte, priorRefresh string, failure error) (Credential, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Credential{}, fmt.Errorf("%w: malformed token response: %v", failure, err)
	}
	if tr.AccessToken == "" {
		return Credential{}, fmt.Errorf("%w: token response missing access_token", failure)
	}

	cred := Credential{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    tc.now().UnixMilli() + tr.ExpiresIn*1000,
	}
	if cred.RefreshToken == "" {
		cred.RefreshToken = priorRefresh
	}

	return cred, nil
}
