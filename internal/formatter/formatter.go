// package formatter reshapes provider payloads into the flat summaries the relay returns
package formatter

import (
	"fmt"
	"strings"

	"github.com/SupeeerMario/LowKey/internal/spotify"
)

// FormatDuration renders a millisecond duration as M:SS (125000 -> "2:05").
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// TrackSummary is the flattened record returned for playlist track listings.
type TrackSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artists  string `json:"artists"`
	Album    string `json:"album"`
	Duration string `json:"duration"`
	URI      string `json:"uri"`
	AddedAt  string `json:"added_at,omitempty"`
}

// TrackListing is the reshaped response body for a playlist's tracks.
type TrackListing struct {
	Total  int            `json:"total"`
	Tracks []TrackSummary `json:"tracks"`
}

// SummarizeTracks flattens the nested artist/album/duration fields of a
// playlist track page into summary records.
func SummarizeTracks(page *spotify.PlaylistTracksPage) TrackListing {
	summaries := make([]TrackSummary, 0, len(page.Items))

	for _, item := range page.Items {
		names := make([]string, 0, len(item.Track.Artists))
		for _, artist := range item.Track.Artists {
			names = append(names, artist.Name)
		}

		summaries = append(summaries, TrackSummary{
			ID:       item.Track.ID,
			Name:     item.Track.Name,
			Artists:  strings.Join(names, ", "),
			Album:    item.Track.Album.Name,
			Duration: FormatDuration(item.Track.DurationMS),
			URI:      item.Track.URI,
			AddedAt:  item.AddedAt,
		})
	}

	return TrackListing{Total: page.Total, Tracks: summaries}
}
