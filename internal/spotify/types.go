package spotify

// CreatePlaylistRequest is the provider-side body for playlist creation.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// AddTracksRequest appends URIs to a playlist, optionally at a position.
type AddTracksRequest struct {
	URIs     []string `json:"uris"`
	Position *int     `json:"position,omitempty"`
}

// TrackRef identifies a track to remove by URI.
type TrackRef struct {
	URI string `json:"uri"`
}

// RemoveTracksRequest deletes tracks, optionally pinned to a snapshot.
type RemoveTracksRequest struct {
	Tracks     []TrackRef `json:"tracks"`
	SnapshotID string     `json:"snapshot_id,omitempty"`
}

// Artist is the subset of an artist object the relay reshapes.
type Artist struct {
	Name string `json:"name"`
}

// Album is the subset of an album object the relay reshapes.
type Album struct {
	Name string `json:"name"`
}

// Track is the subset of a track object used in the reshaped listing.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	URI        string   `json:"uri"`
}

// PlaylistTrackItem is a track within a playlist context.
type PlaylistTrackItem struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// PlaylistTracksPage is a page of a playlist's track listing.
type PlaylistTracksPage struct {
	Items []PlaylistTrackItem `json:"items"`
	Total int                 `json:"total"`
	Next  *string             `json:"next"`
}
