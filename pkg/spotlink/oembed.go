package spotlink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// DefaultOEmbedURL is Spotify's oEmbed endpoint.
	DefaultOEmbedURL = "https://open.spotify.com/oembed"
	// DefaultSiteURL is the base URL for canonical Spotify item pages.
	DefaultSiteURL = "https://open.spotify.com"
)

// oEmbedResponse represents the subset of the oEmbed payload we care about.
type oEmbedResponse struct {
	Title string `json:"title"`
}

// OEmbedStrategy extracts metadata from Spotify's oEmbed endpoint. The
// returned title follows the "Title by Artist" convention for tracks.
type OEmbedStrategy struct {
	client *http.Client

	// EndpointURL overrides the oEmbed endpoint, mainly for tests.
	EndpointURL string
	// SiteURL overrides the canonical item URL base, mainly for tests.
	SiteURL string
}

// NewOEmbedStrategy creates a new oEmbed extraction strategy.
func NewOEmbedStrategy() *OEmbedStrategy {
	return &OEmbedStrategy{
		client:      newHTTPClient(),
		EndpointURL: DefaultOEmbedURL,
		SiteURL:     DefaultSiteURL,
	}
}

// Name identifies the strategy.
func (s *OEmbedStrategy) Name() string { return "oembed" }

// Extract fetches the oEmbed description of the referenced item and parses
// its title field.
func (s *OEmbedStrategy) Extract(ctx context.Context, ref *MediaReference) (*TrackMetadata, error) {
	itemURL := fmt.Sprintf("%s/%s/%s", s.SiteURL, ref.Kind, ref.ID)
	reqURL := fmt.Sprintf("%s?url=%s", s.EndpointURL, url.QueryEscape(itemURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oEmbed endpoint returned status %d", resp.StatusCode)
	}

	var oembed oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w", err)
	}

	if oembed.Title == "" {
		return nil, errors.New("oEmbed response has no title")
	}

	title, artist := splitByConvention(oembed.Title)
	return &TrackMetadata{Title: title, Artist: artist}, nil
}
