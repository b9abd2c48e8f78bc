package applemusic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultSearchEndpoint is the iTunes Search API endpoint.
	DefaultSearchEndpoint = "https://itunes.apple.com/search"
	// DefaultSearchLimit is the number of candidates requested per search.
	DefaultSearchLimit = 10
	// searchRequestTimeout bounds each search call.
	searchRequestTimeout = 10 * time.Second
)

// Candidate is a single result row from the iTunes Search API. Candidates are
// ranked in place and never persisted.
type Candidate struct {
	WrapperType    string `json:"wrapperType"`
	Kind           string `json:"kind"`
	TrackID        int64  `json:"trackId"`
	CollectionID   int64  `json:"collectionId"`
	ArtistID       int64  `json:"artistId"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
	CollectionType string `json:"collectionType"`
}

// DisplayName returns the best available name for the candidate.
func (c *Candidate) DisplayName() string {
	switch {
	case c.TrackName != "":
		return c.TrackName
	case c.CollectionName != "":
		return c.CollectionName
	default:
		return c.ArtistName
	}
}

type searchResponse struct {
	ResultCount int         `json:"resultCount"`
	Results     []Candidate `json:"results"`
}

// Searcher queries the iTunes Search API for music catalog candidates.
type Searcher struct {
	client *http.Client

	// EndpointURL overrides the search endpoint, mainly for tests.
	EndpointURL string
	// Limit is the maximum number of candidates to request.
	Limit int
}

// NewSearcher creates a searcher against the public iTunes Search API.
func NewSearcher() *Searcher {
	return &Searcher{
		client:      &http.Client{Timeout: searchRequestTimeout},
		EndpointURL: DefaultSearchEndpoint,
		Limit:       DefaultSearchLimit,
	}
}

// Search runs a music search scoped to the given region and entity type and
// returns up to Limit candidates. An empty result slice is not an error.
func (s *Searcher) Search(ctx context.Context, term, country, entity string) ([]Candidate, error) {
	params := url.Values{
		"term":    {term},
		"country": {country},
		"media":   {"music"},
		"entity":  {entity},
		"limit":   {strconv.Itoa(s.Limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.EndpointURL+"?"+params.Encode(), http.NoBody)
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
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return body.Results, nil
}
