package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SupeeerMario/LowKey/internal/shared"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

func recordingServer(t *testing.T, status int, responseBody string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(responseBody))
	}))
	t.Cleanup(ts.Close)

	return ts, rec
}

func TestClient(t *testing.T) {
	t.Run("Profile", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusOK, `{"id":"user1"}`)
		client := NewClient(ts.URL, nil)

		resp, err := client.Profile(context.Background(), "tok")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.method != http.MethodGet || rec.path != "/me" {
			t.Errorf("expected GET /me, got %s %s", rec.method, rec.path)
		}
		if rec.auth != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", rec.auth)
		}
		if !resp.OK() {
			t.Errorf("expected OK response, got %d", resp.StatusCode)
		}
		if string(resp.Body) != `{"id":"user1"}` {
			t.Errorf("expected body carried verbatim, got %s", resp.Body)
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusOK, `{"items":[]}`)
		client := NewClient(ts.URL, nil)

		if _, err := client.Playlists(context.Background(), "tok"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.method != http.MethodGet || rec.path != "/me/playlists" {
			t.Errorf("expected GET /me/playlists, got %s %s", rec.method, rec.path)
		}
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusOK, `{"items":[],"total":0}`)
		client := NewClient(ts.URL, nil)

		if _, err := client.PlaylistTracks(context.Background(), "tok", "pl123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.path != "/playlists/pl123/tracks" {
			t.Errorf("expected playlist tracks path, got %s", rec.path)
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusCreated, `{"id":"pl_new"}`)
		client := NewClient(ts.URL, nil)

		resp, err := client.CreatePlaylist(context.Background(), "tok", "user1", CreatePlaylistRequest{
			Name:        "Road Trip",
			Description: "for the drive",
			Public:      false,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.method != http.MethodPost || rec.path != "/users/user1/playlists" {
			t.Errorf("expected POST /users/user1/playlists, got %s %s", rec.method, rec.path)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected 201, got %d", resp.StatusCode)
		}

		var sent CreatePlaylistRequest
		if err := json.Unmarshal(rec.body, &sent); err != nil {
			t.Fatalf("failed to decode sent body: %v", err)
		}
		if sent.Name != "Road Trip" {
			t.Errorf("expected name forwarded, got %q", sent.Name)
		}
	})

	t.Run("AddTracks", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusCreated, `{"snapshot_id":"snap"}`)
		client := NewClient(ts.URL, nil)

		_, err := client.AddTracks(context.Background(), "tok", "pl123", AddTracksRequest{
			URIs: []string{"spotify:track:abc"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.method != http.MethodPost || rec.path != "/playlists/pl123/tracks" {
			t.Errorf("expected POST /playlists/pl123/tracks, got %s %s", rec.method, rec.path)
		}
	})

	t.Run("RemoveTracks", func(t *testing.T) {
		ts, rec := recordingServer(t, http.StatusOK, `{"snapshot_id":"snap"}`)
		client := NewClient(ts.URL, nil)

		_, err := client.RemoveTracks(context.Background(), "tok", "pl123", RemoveTracksRequest{
			Tracks: []TrackRef{{URI: "spotify:track:abc"}},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", rec.method)
		}

		var sent RemoveTracksRequest
		if err := json.Unmarshal(rec.body, &sent); err != nil {
			t.Fatalf("failed to decode sent body: %v", err)
		}
		if len(sent.Tracks) != 1 || sent.Tracks[0].URI != "spotify:track:abc" {
			t.Errorf("expected track refs forwarded, got %+v", sent.Tracks)
		}
	})

	t.Run("Provider Error Carried Verbatim", func(t *testing.T) {
		ts, _ := recordingServer(t, http.StatusForbidden, `{"error":{"status":403,"message":"Insufficient client scope"}}`)
		client := NewClient(ts.URL, nil)

		resp, err := client.Profile(context.Background(), "tok")
		if err != nil {
			t.Fatalf("expected no error for non-2xx, got %v", err)
		}
		if resp.OK() {
			t.Error("expected non-OK response")
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close()
		client := NewClient(ts.URL, nil)

		if _, err := client.Profile(context.Background(), "tok"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
