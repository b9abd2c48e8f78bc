// Package spotlink classifies Spotify URLs and resolves them to best-effort track metadata.
package spotlink

import (
	"context"
)

// Kind identifies the type of Spotify item a URL points at.
type Kind string

const (
	// KindTrack is a single track link.
	KindTrack Kind = "track"
	// KindAlbum is an album link.
	KindAlbum Kind = "album"
	// KindArtist is an artist page link.
	KindArtist Kind = "artist"
	// KindPlaylist is a playlist link.
	KindPlaylist Kind = "playlist"
)

// MediaReference identifies a single Spotify item extracted from a URL.
type MediaReference struct {
	Kind      Kind   // Item type (track, album, artist, playlist).
	ID        string // Spotify base62 identifier.
	SourceURL string // The URL the reference was extracted from.
}

// TrackMetadata holds extracted item metadata. All fields are optional;
// absence is represented by the empty string / zero value.
type TrackMetadata struct {
	Title      string
	Artist     string
	Album      string
	ISRC       string
	DurationMs int64
}

// Strategy is a single metadata extraction method. Extract returns an error
// when the method cannot produce usable metadata; callers are expected to
// fall through to the next strategy.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Extract attempts to produce metadata for the referenced item.
	Extract(ctx context.Context, ref *MediaReference) (*TrackMetadata, error)
}
