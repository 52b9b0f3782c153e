package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SupeeerMario/LowKey/internal/auth"
	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/charmbracelet/log"
)

// CodeExchanger builds the consent URL and trades authorization codes for
// credentials. Implemented by [auth.TokenClient].
type CodeExchanger interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (auth.Credential, error)
}

// AuthHandler drives the provider's authorization-code flow.
//
// /auth/login redirects the user agent to the consent page with a fresh
// anti-forgery state; /auth/callback exchanges the returned code and persists
// the credential; /auth/logout clears it.
type AuthHandler struct {
	client CodeExchanger
	store  auth.Store
	logger *log.Logger
}

// NewAuthHandler creates an AuthHandler over the token client and session store.
func NewAuthHandler(client CodeExchanger, store auth.Store, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{client: client, store: store, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /auth/login",
		"GET /auth/callback",
		"GET /auth/logout",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		h.login(w, r)
	case "/auth/callback":
		h.callback(w, r)
	case "/auth/logout":
		h.logout(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state, err := shared.GenerateState(16)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}

	http.Redirect(w, r, h.client.AuthURL(state), http.StatusFound)
}

// callback exchanges the authorization code for a credential. Failures are
// reported to the user agent as fragment parameters on the redirect target, so
// no credential is stored and the browser lands back on the app shell.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") == "" {
		http.Redirect(w, r, "/#"+url.Values{"error": {"state_mismatch"}}.Encode(), http.StatusFound)
		return
	}

	cred, err := h.client.ExchangeCode(r.Context(), query.Get("code"))
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err)
		http.Redirect(w, r, "/#"+url.Values{"error": {"invalid_token"}}.Encode(), http.StatusFound)
		return
	}

	sid := shared.GenerateID()
	if err := h.store.Save(w, r, sid, cred); err != nil {
		h.logger.Error("failed to persist credential", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}

	h.logger.Info("authorization complete", "session", sid)

	redirect := "/#" + url.Values{
		"access_token":  {cred.AccessToken},
		"refresh_token": {cred.RefreshToken},
	}.Encode()
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

var _ CodeExchanger = (*auth.TokenClient)(nil)
