package auth

import (
	"net/http"
	"strconv"
)

// Cookie names round-tripped to the browser.
const (
	CookieSession      = "sid"
	CookieToken        = "token"
	CookieRefreshToken = "refreshtoken"
	CookieExpiresAt    = "expires_at"
)

// Store persists one credential per browser session.
//
// Implementations are request-scoped: Load reconstructs the credential from
// the incoming request and Save writes the refreshed credential back before
// the gate returns, so the client always observes the persisted state.
type Store interface {
	// Load returns the stored credential and the session identifier. An
	// incomplete credential means no authorization has completed.
	Load(r *http.Request) (Credential, string)

	// Save persists the credential under the session identifier and ensures
	// the session cookie reaches the client.
	Save(w http.ResponseWriter, r *http.Request, sid string, cred Credential) error

	// Clear removes the stored credential and expires its cookies.
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Peeker is an optional [Store] extension for re-reading a session's
// credential server-side. The gate uses it to detect a refresh that completed
// while a request waited on the session lock.
type Peeker interface {
	Peek(sid string) (Credential, bool)
}

// CookieStore round-trips the credential through the client as opaque cookie
// values. The incoming request is the source of truth; no server-side copy
// survives between requests. Concurrent requests from the same session resolve
// last-write-wins on the cookie values.
type CookieStore struct {
	secure bool
}

// NewCookieStore creates a CookieStore. Cookies are HTTP-only and SameSite=Lax;
// secure marks them Secure for production deployments behind TLS.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

func (s *CookieStore) Load(r *http.Request) (Credential, string) {
	var cred Credential
	if c, err := r.Cookie(CookieToken); err == nil {
		cred.AccessToken = c.Value
	}
	if c, err := r.Cookie(CookieRefreshToken); err == nil {
		cred.RefreshToken = c.Value
	}
	if c, err := r.Cookie(CookieExpiresAt); err == nil {
		if ms, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
			cred.ExpiresAt = ms
		}
	}

	var sid string
	if c, err := r.Cookie(CookieSession); err == nil {
		sid = c.Value
	}

	return cred, sid
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, sid string, cred Credential) error {
	s.set(w, CookieSession, sid)
	s.set(w, CookieToken, cred.AccessToken)
	s.set(w, CookieRefreshToken, cred.RefreshToken)
	s.set(w, CookieExpiresAt, strconv.FormatInt(cred.ExpiresAt, 10))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	for _, name := range []string{CookieSession, CookieToken, CookieRefreshToken, CookieExpiresAt} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   s.secure,
		})
	}
	return nil
}

func (s *CookieStore) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}
