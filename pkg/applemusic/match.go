package applemusic

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"tuneswap/pkg/spotlink"
)

const (
	// DefaultStoreURL is the Apple Music web player base URL.
	DefaultStoreURL = "https://music.apple.com"
	// DefaultMatchThreshold is the score at which a candidate is accepted as
	// an exact match.
	DefaultMatchThreshold = 0.8

	titleWeight  = 0.5
	artistWeight = 0.3
	albumWeight  = 0.2
)

// Matcher turns extracted metadata into an Apple Music destination URL,
// either an exact catalog entry found through the search API or a regional
// search URL. A nil Searcher skips the exact-match step entirely.
type Matcher struct {
	searcher *Searcher

	// StoreURL overrides the Apple Music base URL, mainly for tests.
	StoreURL string
	// Threshold is the exact-match acceptance score.
	Threshold float64
}

// NewMatcher creates a matcher. searcher may be nil, in which case every
// conversion degrades to a search URL.
func NewMatcher(searcher *Searcher) *Matcher {
	return &Matcher{
		searcher:  searcher,
		StoreURL:  DefaultStoreURL,
		Threshold: DefaultMatchThreshold,
	}
}

// Destination produces the destination URL for the given metadata and item
// kind. The second return value reports whether the URL points at a specific
// catalog item rather than a search results page. Search failures are never
// surfaced; they degrade to the search URL.
func (m *Matcher) Destination(ctx context.Context, md *spotlink.TrackMetadata, kind spotlink.Kind, countryCode string) (string, bool) {
	query := BuildSearchQuery(md, kind)
	if len([]rune(query)) < MinQueryLength {
		return m.BareSearchURL(countryCode), false
	}

	if m.searcher != nil {
		if dest, ok := m.findExact(ctx, query, md, kind, countryCode); ok {
			return dest, !isSearchURL(dest)
		}
	}

	return m.SearchURL(countryCode, query), false
}

// findExact searches the catalog and synthesizes a URL from the best
// candidate. It reports false on any error or when nothing was found.
func (m *Matcher) findExact(ctx context.Context, query string, md *spotlink.TrackMetadata, kind spotlink.Kind, countryCode string) (string, bool) {
	results, err := m.searcher.Search(ctx, query, countryCode, EntityForKind(kind))
	if err != nil || len(results) == 0 {
		return "", false
	}

	best := m.selectBest(results, md, kind)
	return m.CandidateURL(best, countryCode), true
}

// selectBest returns the first candidate scoring at or above the threshold,
// falling back to the top-ranked candidate as a weaker match.
func (m *Matcher) selectBest(results []Candidate, md *spotlink.TrackMetadata, kind spotlink.Kind) *Candidate {
	for i := range results {
		if m.Score(&results[i], md, kind) >= m.Threshold {
			return &results[i]
		}
	}
	return &results[0]
}

// Score rates a candidate against the source metadata. Weights apply only
// for source fields that are present, and the sum is normalized by the
// applicable weights so partial metadata still scores in [0, 1].
func (m *Matcher) Score(c *Candidate, md *spotlink.TrackMetadata, kind spotlink.Kind) float64 {
	var score, maxScore float64

	if md.Title != "" {
		maxScore += titleWeight
		name := c.TrackName
		if name == "" {
			name = c.CollectionName
		}
		score += titleWeight * StringSimilarity(CleanSongTitle(md.Title), name)
	}

	if md.Artist != "" {
		maxScore += artistWeight
		score += artistWeight * StringSimilarity(PrimaryArtist(md.Artist), c.ArtistName)
	}

	if md.Album != "" && kind == spotlink.KindTrack {
		maxScore += albumWeight
		score += albumWeight * StringSimilarity(md.Album, c.CollectionName)
	}

	if maxScore == 0 {
		return 0
	}
	return score / maxScore
}

// CandidateURL synthesizes an Apple Music URL from a candidate. Songs get an
// album-shaped path with the track selected, collections a bare album path,
// artists an artist path. Unrecognized shapes fall back to a search URL using
// the candidate's own name.
func (m *Matcher) CandidateURL(c *Candidate, countryCode string) string {
	base := fmt.Sprintf("%s/%s", m.StoreURL, countryCode)

	switch {
	case c.WrapperType == "track" || c.Kind == "song":
		return fmt.Sprintf("%s/album/%s/%d?i=%d", base, Slugify(c.CollectionName), c.CollectionID, c.TrackID)
	case c.WrapperType == "collection" || c.CollectionType != "":
		return fmt.Sprintf("%s/album/%s/%d", base, Slugify(c.CollectionName), c.CollectionID)
	case c.WrapperType == "artist":
		return fmt.Sprintf("%s/artist/%s/%d", base, Slugify(c.ArtistName), c.ArtistID)
	}

	return m.SearchURL(countryCode, c.DisplayName())
}

// SearchURL builds the regional search results URL for a term.
func (m *Matcher) SearchURL(countryCode, term string) string {
	return fmt.Sprintf("%s/%s/search?term=%s", m.StoreURL, countryCode, url.QueryEscape(term))
}

// BareSearchURL builds the regional search page URL with no term.
func (m *Matcher) BareSearchURL(countryCode string) string {
	return fmt.Sprintf("%s/%s/search", m.StoreURL, countryCode)
}

// isSearchURL reports whether a destination points at a search results page
// rather than a specific catalog item.
func isSearchURL(dest string) bool {
	return strings.Contains(dest, "/search")
}
