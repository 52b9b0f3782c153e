package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/charmbracelet/log"
)

// Refresher mints a new credential from a refresh token. Implemented by [TokenClient].
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Credential, error)
}

// Manager gates provider calls on a usable access token, refreshing just in
// time when the stored credential has expired.
//
// Refresh is lazy: there is no background timer or proactive refresh, so the
// first post-expiry request pays the refresh latency and idle sessions cost
// nothing. A per-session mutex serializes the refresh-then-persist sequence so
// concurrent requests holding the same expired credential trigger one provider
// refresh, not several.
type Manager struct {
	store  Store
	client Refresher
	logger *log.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a Manager over the given store and token client.
func NewManager(store Store, client Refresher, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// EnsureValid returns an access token safe to attach to exactly one outbound
// provider call. Preconditions are checked in order:
//
//  1. No stored credential: [shared.ErrNotAuthenticated], zero outbound calls.
//  2. Unexpired credential: the current access token, zero outbound calls.
//  3. Expired credential: a synchronous refresh using the stored refresh
//     token; the refreshed credential is persisted before the gate returns.
//     On failure the stored credential is left untouched and
//     [shared.ErrRefreshFailed] propagates to the caller.
func (m *Manager) EnsureValid(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	cred, sid := m.store.Load(r)
	if !cred.Complete() {
		return "", shared.ErrNotAuthenticated
	}

	if !cred.Expired(m.now()) {
		return cred.AccessToken, nil
	}

	unlock := m.lockSession(sid)
	defer unlock()

	// Another request for the same session may have refreshed while this one
	// waited on the lock; stores that can re-read server-side state let the
	// loser return the winner's credential without a second provider call.
	if p, ok := m.store.(Peeker); ok && sid != "" {
		if latest, found := p.Peek(sid); found && latest.Complete() && !latest.Expired(m.now()) {
			return latest.AccessToken, nil
		}
	}

	refreshed, err := m.client.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed", "session", sid, "error", err)
		return "", err
	}

	if err := m.store.Save(w, r, sid, refreshed); err != nil {
		return "", fmt.Errorf("%w: persisting refreshed credential: %v", shared.ErrRefreshFailed, err)
	}

	m.logger.Debug("access token refreshed", "session", sid, "expires_at", refreshed.ExpiresAt)
	return refreshed.AccessToken, nil
}

// lockSession acquires the mutex for a session key and returns its unlock.
func (m *Manager) lockSession(sid string) func() {
	m.mu.Lock()
	l, ok := m.locks[sid]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sid] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
