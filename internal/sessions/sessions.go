// Package sessions persists one Spotify credential per browser session in
// SQLite. The browser holds only an opaque session cookie; tokens never leave
// the server in this variant.
package sessions

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/SupeeerMario/LowKey/internal/auth"
	"github.com/SupeeerMario/LowKey/internal/shared"
)

// Store implements [auth.Store] backed by the sessions table.
type Store struct {
	db     *sql.DB
	secure bool
}

// NewStore creates a Store over an open database connection. The schema comes
// from the shared migration runner.
func NewStore(db *sql.DB, secure bool) *Store {
	return &Store{db: db, secure: secure}
}

// Load reconstructs the credential for the request's session cookie. A missing
// cookie or unknown session yields an incomplete credential.
func (s *Store) Load(r *http.Request) (auth.Credential, string) {
	c, err := r.Cookie(auth.CookieSession)
	if err != nil || c.Value == "" {
		return auth.Credential{}, ""
	}

	cred, ok := s.Peek(c.Value)
	if !ok {
		return auth.Credential{}, c.Value
	}
	return cred, c.Value
}

// Peek re-reads the stored credential for a session id. Satisfies
// [auth.Peeker] so the gate can double-check after waiting on the session lock.
func (s *Store) Peek(sid string) (auth.Credential, bool) {
	var cred auth.Credential
	query := `SELECT access_token, refresh_token, expires_at FROM sessions WHERE id = ?`

	err := s.db.QueryRow(query, sid).Scan(&cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt)
	if err != nil {
		return auth.Credential{}, false
	}
	return cred, true
}

// Save upserts the credential row and sets the session cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, sid string, cred auth.Credential) error {
	if sid == "" {
		return fmt.Errorf("%w: empty session id", shared.ErrInvalidInput)
	}

	now := time.Now()
	query := `
		INSERT INTO sessions (id, access_token, refresh_token, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, sid, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, now, now); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieSession,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})

	return nil
}

// Clear deletes the session row and expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(auth.CookieSession); err == nil && c.Value != "" {
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, c.Value); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieSession,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})

	return nil
}
