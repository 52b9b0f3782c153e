// Package spotify is the Web API client for the relay's proxied resource
// calls. Responses are carried verbatim so handlers can map the provider's
// status and body straight through.
//
// Endpoint shapes based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/SupeeerMario/LowKey/internal/shared"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// RawResponse carries a provider response with status, headers, and body.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the provider returned a 2xx status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client makes bearer-authenticated requests against the Spotify Web API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL selects the production API;
// tests point it at a local server.
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: client}
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*RawResponse, error) {
	return c.do(ctx, http.MethodGet, "/me", accessToken, nil)
}

// Playlists fetches the current user's playlists.
func (c *Client) Playlists(ctx context.Context, accessToken string) (*RawResponse, error) {
	return c.do(ctx, http.MethodGet, "/me/playlists", accessToken, nil)
}

// PlaylistTracks fetches the track listing of a playlist.
func (c *Client) PlaylistTracks(ctx context.Context, accessToken, playlistID string) (*RawResponse, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return c.do(ctx, http.MethodGet, endpoint, accessToken, nil)
}

// CreatePlaylist creates a playlist for the given user.
func (c *Client) CreatePlaylist(ctx context.Context, accessToken, userID string, body CreatePlaylistRequest) (*RawResponse, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	return c.do(ctx, http.MethodPost, endpoint, accessToken, body)
}

// AddTracks appends track URIs to a playlist.
func (c *Client) AddTracks(ctx context.Context, accessToken, playlistID string, body AddTracksRequest) (*RawResponse, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return c.do(ctx, http.MethodPost, endpoint, accessToken, body)
}

// RemoveTracks deletes track URIs from a playlist.
func (c *Client) RemoveTracks(ctx context.Context, accessToken, playlistID string, body RemoveTracksRequest) (*RawResponse, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return c.do(ctx, http.MethodDelete, endpoint, accessToken, body)
}

// do performs one authenticated request and reads the full response.
func (c *Client) do(ctx context.Context, method, endpoint, accessToken string, body any) (*RawResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", shared.ErrAPIRequest, err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
