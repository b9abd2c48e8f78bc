package core

import (
	"context"
	"errors"

	"tuneswap/pkg/spotlink"
)

var (
	// ErrNotConvertible is returned when a URL does not reference a Spotify
	// track, album, artist or playlist. Callers should take no action.
	ErrNotConvertible = errors.New("url does not reference a convertible item")
	// ErrDisabled is returned when conversion is switched off in the
	// configuration.
	ErrDisabled = errors.New("conversion is disabled")
)

// ConversionResult is the final output of a conversion run. DestinationURL is
// always usable; ExactMatch is true iff it points at a specific catalog item
// rather than a search results page.
type ConversionResult struct {
	DestinationURL string                   `json:"destinationUrl"`
	ExactMatch     bool                     `json:"exactMatch"`
	Reference      *spotlink.MediaReference `json:"reference"`
	Metadata       *spotlink.TrackMetadata  `json:"metadata"`
	ResolvedBy     string                   `json:"resolvedBy"`
}

// MetadataResolver produces best-effort metadata for a reference and names
// the extraction method that succeeded.
type MetadataResolver interface {
	Resolve(ctx context.Context, ref *spotlink.MediaReference) (*spotlink.TrackMetadata, string)
}

// DestinationFinder turns metadata into a destination URL and reports whether
// it is an exact catalog match.
type DestinationFinder interface {
	Destination(ctx context.Context, md *spotlink.TrackMetadata, kind spotlink.Kind, countryCode string) (string, bool)
}

// StatsRecorder records a completed conversion for usage bookkeeping.
// Recording failures must not affect the conversion itself.
type StatsRecorder interface {
	Record(ctx context.Context, kind, country string, exact bool) error
}

// MetricsRecorder exposes the conversion metrics the HTTP server registers.
type MetricsRecorder interface {
	RecordConversion(kind, status string)
	RecordResolverMethod(method string)
	RecordConversionSeconds(kind string, seconds float64)
}
