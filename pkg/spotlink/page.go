package spotlink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	jsonLDRegex        = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)
	descriptionByRegex = regexp.MustCompile(`(?i)by\s+(.+)`)
)

// jsonLDDocument mirrors the structured-data fields Spotify item pages expose.
type jsonLDDocument struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	ByArtist struct {
		Name string `json:"name"`
	} `json:"byArtist"`
	Author struct {
		Name string `json:"name"`
	} `json:"author"`
	InAlbum struct {
		Name string `json:"name"`
	} `json:"inAlbum"`
	ISRC string `json:"isrc"`
}

// PageStrategy extracts metadata by scraping the canonical item page,
// preferring JSON-LD structured data over meta tags and the document title.
type PageStrategy struct {
	client *http.Client

	// SiteURL overrides the canonical page base URL, mainly for tests.
	SiteURL string
}

// NewPageStrategy creates a new canonical-page scraping strategy.
func NewPageStrategy() *PageStrategy {
	return &PageStrategy{
		client:  newHTTPClient(),
		SiteURL: DefaultSiteURL,
	}
}

// Name identifies the strategy.
func (s *PageStrategy) Name() string { return "page" }

// Extract fetches the canonical page for the referenced item and tries
// JSON-LD, OpenGraph/Twitter meta tags and finally the document title.
func (s *PageStrategy) Extract(ctx context.Context, ref *MediaReference) (*TrackMetadata, error) {
	pageURL := fmt.Sprintf("%s/%s/%s", s.SiteURL, ref.Kind, ref.ID)

	html, err := fetchHTML(ctx, s.client, pageURL, defaultMaxReadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item page: %w", err)
	}

	if md := extractFromStructuredData(html); md != nil {
		return md, nil
	}
	if md := extractFromPageMeta(html); md != nil {
		return md, nil
	}
	if md := extractFromDocumentTitle(html); md != nil {
		return md, nil
	}

	return nil, errors.New("no usable metadata in item page")
}

// extractFromStructuredData scans JSON-LD script blocks for a music recording
// or any object carrying a name. Malformed blocks are skipped.
func extractFromStructuredData(html string) *TrackMetadata {
	for _, m := range jsonLDRegex.FindAllStringSubmatch(html, -1) {
		var doc jsonLDDocument
		if err := json.Unmarshal([]byte(m[1]), &doc); err != nil {
			continue
		}
		if doc.Type != "MusicRecording" && doc.Name == "" {
			continue
		}

		artist := doc.ByArtist.Name
		if artist == "" {
			artist = doc.Author.Name
		}
		return &TrackMetadata{
			Title:  doc.Name,
			Artist: artist,
			Album:  doc.InAlbum.Name,
			ISRC:   doc.ISRC,
		}
	}
	return nil
}

// extractFromPageMeta reads og:title (or twitter:title), ignoring the bare
// site name, and recovers the artist from an og:description "by Artist" tail.
func extractFromPageMeta(html string) *TrackMetadata {
	title := metaContent(html, "og:title")
	if title == "" || title == "Spotify" {
		title = metaContentByName(html, "twitter:title")
	}
	if title == "" || title == "Spotify" {
		return nil
	}

	var artist string
	if desc := metaContent(html, "og:description"); desc != "" {
		if m := descriptionByRegex.FindStringSubmatch(desc); m != nil {
			artist = strings.TrimSpace(m[1])
		}
	}

	return &TrackMetadata{Title: title, Artist: artist}
}

// extractFromDocumentTitle parses the page title with the "Title by Artist"
// convention. Placeholder titles are ignored.
func extractFromDocumentTitle(html string) *TrackMetadata {
	docTitle := documentTitle(html)
	if docTitle == "" || docTitle == "Spotify" || docTitle == "Loading..." {
		return nil
	}

	title, artist := splitByConvention(docTitle)
	return &TrackMetadata{Title: title, Artist: artist}
}
