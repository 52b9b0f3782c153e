// Package auth implements the Spotify credential lifecycle: authorization-code
// exchange, absolute expiry tracking, and just-in-time refresh before proxied
// provider calls.
package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is an access/refresh token pair with an absolute expiry.
//
// ExpiresAt is milliseconds since the Unix epoch, derived from the provider's
// expires_in at issuance; it is never set independently of an issuance event.
// A zero-value Credential means no authorization has completed.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Complete reports whether all three fields were populated by a single token
// exchange or refresh.
func (c Credential) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != "" && c.ExpiresAt > 0
}

// Expired reports whether the access token must not be used at the given
// instant. The comparison is against the absolute expiry timestamp, so the
// check is stateless across requests and survives process restarts when the
// credential is persisted externally.
func (c Credential) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

// Token converts the credential to an [oauth2.Token].
func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       time.UnixMilli(c.ExpiresAt),
	}
}

// FromToken builds a Credential from an [oauth2.Token].
func FromToken(t *oauth2.Token) Credential {
	return Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.Expiry.UnixMilli(),
	}
}
