package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/SupeeerMario/LowKey/internal/spotify"
)

// errorBody is the JSON shape for relay-originated errors.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a relay-originated error body.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorBody{Error: message, Details: details})
}

// writeAuthError maps credential lifecycle failures onto user-visible statuses:
// a missing or unrefreshable credential is a 401 instructing re-login,
// anything else is a 500.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Missing access token", "log in at /auth/login")
	case errors.Is(err, shared.ErrRefreshFailed):
		writeError(w, http.StatusUnauthorized, "Session expired", "log in again at /auth/login")
	default:
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
	}
}

// relay copies a provider response verbatim: status, content type, and body.
func relay(w http.ResponseWriter, resp *spotify.RawResponse) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
