package server

import (
	"net/http"
)

// StatusHandler serves the liveness routes.
type StatusHandler struct{}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{
		"GET /ping",
		"GET /{$}",
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ping":
		writeJSON(w, http.StatusOK, map[string]string{"message": "Server is alive!"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Backend API is running!"})
	}
}
