package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/SupeeerMario/LowKey/internal/auth"
	"github.com/SupeeerMario/LowKey/internal/formatter"
	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/SupeeerMario/LowKey/internal/spotify"
	"github.com/charmbracelet/log"
)

// Gate validates the stored credential and refreshes it when expired before a
// proxied call proceeds. Implemented by [auth.Manager].
type Gate interface {
	EnsureValid(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error)
}

// SpotifyHandler proxies playlist and profile operations to the provider.
//
// Every operation passes the credential gate first, then issues exactly one
// outbound call with the returned bearer token; the provider's status and body
// map back verbatim unless the route reshapes them.
type SpotifyHandler struct {
	gate   Gate
	client *spotify.Client
	logger *log.Logger
}

// NewSpotifyHandler creates a SpotifyHandler over the credential gate and API client.
func NewSpotifyHandler(gate Gate, client *spotify.Client, logger *log.Logger) *SpotifyHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyHandler{gate: gate, client: client, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SpotifyHandler) Routes() []string {
	return []string{
		"GET /spotify/profile",
		"GET /spotify/getplaylists",
		"GET /spotify/getplaylisttracks/{playlist_id}",
		"POST /spotify/createplaylist",
		"POST /spotify/addtoplaylist",
		"DELETE /spotify/deletefromplaylist",
	}
}

func (h *SpotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/spotify/profile":
		h.profile(w, r)
	case r.URL.Path == "/spotify/getplaylists":
		h.playlists(w, r)
	case strings.HasPrefix(r.URL.Path, "/spotify/getplaylisttracks/"):
		h.playlistTracks(w, r)
	case r.URL.Path == "/spotify/createplaylist":
		h.createPlaylist(w, r)
	case r.URL.Path == "/spotify/addtoplaylist":
		h.addToPlaylist(w, r)
	case r.URL.Path == "/spotify/deletefromplaylist":
		h.deleteFromPlaylist(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SpotifyHandler) profile(w http.ResponseWriter, r *http.Request) {
	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.client.Profile(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	relay(w, resp)
}

func (h *SpotifyHandler) playlists(w http.ResponseWriter, r *http.Request) {
	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.client.Playlists(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	relay(w, resp)
}

// playlistTracks proxies the playlist track listing and flattens it into
// summary records with durations reformatted from milliseconds to M:SS.
// Provider errors pass through untouched.
func (h *SpotifyHandler) playlistTracks(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("playlist_id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "playlist_id is required", "")
		return
	}

	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.client.PlaylistTracks(r.Context(), token, playlistID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	if !resp.OK() {
		relay(w, resp)
		return
	}

	var page spotify.PlaylistTracksPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", "malformed provider response: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, formatter.SummarizeTracks(&page))
}

// createPlaylistRequest is the inbound body for playlist creation.
type createPlaylistRequest struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic"`
}

func (h *SpotifyHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "")
		return
	}

	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	public := false
	if body.IsPublic != nil {
		public = *body.IsPublic
	}

	resp, err := h.client.CreatePlaylist(r.Context(), token, body.UserID, spotify.CreatePlaylistRequest{
		Name:        body.Name,
		Description: body.Description,
		Public:      public,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	relay(w, resp)
}

// addToPlaylistRequest is the inbound body for appending tracks.
type addToPlaylistRequest struct {
	PlaylistID string   `json:"playlist_id"`
	URIs       []string `json:"uris"`
	Position   *int     `json:"position"`
}

func (h *SpotifyHandler) addToPlaylist(w http.ResponseWriter, r *http.Request) {
	var body addToPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if body.PlaylistID == "" {
		writeError(w, http.StatusBadRequest, "playlist_id is required", "")
		return
	}
	if len(body.URIs) == 0 {
		writeError(w, http.StatusBadRequest, "uris must be a non-empty array", "")
		return
	}

	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.client.AddTracks(r.Context(), token, body.PlaylistID, spotify.AddTracksRequest{
		URIs:     body.URIs,
		Position: body.Position,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	relay(w, resp)
}

// deleteFromPlaylistRequest is the inbound body for removing tracks.
type deleteFromPlaylistRequest struct {
	PlaylistID string             `json:"playlist_id"`
	Tracks     []spotify.TrackRef `json:"tracks"`
	SnapshotID string             `json:"snapshot_id"`
}

func (h *SpotifyHandler) deleteFromPlaylist(w http.ResponseWriter, r *http.Request) {
	var body deleteFromPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if body.PlaylistID == "" {
		writeError(w, http.StatusBadRequest, "playlist_id is required", "")
		return
	}
	if len(body.Tracks) == 0 {
		writeError(w, http.StatusBadRequest, "tracks must be a non-empty array", "")
		return
	}
	for _, track := range body.Tracks {
		if track.URI == "" {
			writeError(w, http.StatusBadRequest, "each track must include a uri", "")
			return
		}
	}

	token, err := h.gate.EnsureValid(r.Context(), w, r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	resp, err := h.client.RemoveTracks(r.Context(), token, body.PlaylistID, spotify.RemoveTracksRequest{
		Tracks:     body.Tracks,
		SnapshotID: body.SnapshotID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong", err.Error())
		return
	}
	relay(w, resp)
}

var _ Gate = (*auth.Manager)(nil)
