package spotlink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// DefaultEmbedURL is the base URL for Spotify's embeddable item pages.
const DefaultEmbedURL = "https://open.spotify.com/embed"

// scriptNameRegex scans inline scripts for a JSON "name" field as a last
// resort title source.
var scriptNameRegex = regexp.MustCompile(`(?s)<script[^>]*>.*?"name":\s*"([^"]+)".*?</script>`)

// EmbedStrategy extracts metadata by scraping Spotify's embeddable HTML
// representation of an item. The embed pages are lightweight and carry the
// item metadata in the title tag and OpenGraph/music meta properties.
type EmbedStrategy struct {
	client *http.Client

	// EndpointURL overrides the embed page base URL, mainly for tests.
	EndpointURL string
}

// NewEmbedStrategy creates a new embed-page scraping strategy.
func NewEmbedStrategy() *EmbedStrategy {
	return &EmbedStrategy{
		client:      newHTTPClient(),
		EndpointURL: DefaultEmbedURL,
	}
}

// Name identifies the strategy.
func (s *EmbedStrategy) Name() string { return "embed" }

// Extract fetches the embed page for the referenced item and scrapes title,
// artist and album from it.
func (s *EmbedStrategy) Extract(ctx context.Context, ref *MediaReference) (*TrackMetadata, error) {
	pageURL := fmt.Sprintf("%s/%s/%s", s.EndpointURL, ref.Kind, ref.ID)

	html, err := fetchHTML(ctx, s.client, pageURL, defaultMaxReadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch embed page: %w", err)
	}

	md := extractFromEmbedHTML(html)
	if md.Title == "" && md.Artist == "" {
		return nil, errors.New("no usable metadata in embed page")
	}
	return md, nil
}

// extractFromEmbedHTML scrapes metadata out of an embed page document.
// Title-tag conventions are tried first; OpenGraph and music meta properties
// override the title-derived values when present, and an inline-script "name"
// field serves as a last resort for the title.
func extractFromEmbedHTML(html string) *TrackMetadata {
	md := &TrackMetadata{}

	if docTitle := documentTitle(html); docTitle != "" {
		if title, artist := splitByConvention(docTitle); artist != "" {
			md.Title = title
			md.Artist = artist
		} else if artist, title, ok := splitDashConvention(docTitle); ok {
			md.Artist = artist
			md.Title = title
		} else {
			md.Title = docTitle
		}
	}

	if artist := metaContent(html, "music:musician"); artist != "" {
		md.Artist = artist
	}
	if album := metaContent(html, "music:album"); album != "" {
		md.Album = album
	}
	if title := metaContent(html, "og:title"); title != "" {
		md.Title = title
	}

	if md.Title == "" {
		if m := scriptNameRegex.FindStringSubmatch(html); m != nil {
			md.Title = m[1]
		}
	}

	return md
}
