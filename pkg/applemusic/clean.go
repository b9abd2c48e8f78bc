// Package applemusic selects Apple Music destinations for extracted track
// metadata, using the iTunes Search API for exact matches with a regional
// search URL as the universal fallback.
package applemusic

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalRegex = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	featuringRegex     = regexp.MustCompile(`(?i)\s*\b(?:feat\.?|ft\.?|featuring)\s+.*$`)
	// dashQualifierRegex strips trailing remix/version qualifiers introduced
	// by a dash. Only the fixed vocabulary triggers; a bare hyphen inside a
	// word ("Anti-Hero") survives untouched.
	dashQualifierRegex = regexp.MustCompile(
		`(?i)\s*-\s*(?:remix|version|edit|mix|instrumental|acoustic|live|radio|explicit|clean|remaster|deluxe).*$`)
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	slugInvalidRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// CleanSongTitle strips parenthetical segments, featuring suffixes and
// dash-introduced remix/version qualifiers from a track title, producing the
// form used for search queries and similarity comparison.
func CleanSongTitle(title string) string {
	title = parentheticalRegex.ReplaceAllString(title, "")
	title = featuringRegex.ReplaceAllString(title, "")
	title = dashQualifierRegex.ReplaceAllString(title, "")
	title = whitespaceRegex.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// PrimaryArtist returns the first listed artist, dropping collaborators
// after a comma.
func PrimaryArtist(artist string) string {
	return strings.TrimSpace(strings.SplitN(artist, ",", 2)[0])
}

// Slugify converts a display name into the lowercase hyphen-joined form used
// in Apple Music URL paths.
func Slugify(name string) string {
	slug := slugInvalidRegex.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// normalizeForMatch lowercases, folds accents and strips punctuation so that
// "Anti-Hero" and "anti hero" compare equal.
func normalizeForMatch(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	for _, r := range s {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}

	s = punctuationRegex.ReplaceAllString(b.String(), "")
	s = strings.ToLower(s)
	return strings.TrimSpace(s)
}

// StringSimilarity scores two strings in [0, 1] by the fraction of words with
// a containment match (substring either direction) in the other string, after
// normalization. Identical normalized strings score 1.0; either side empty
// scores 0.
func StringSimilarity(s1, s2 string) float64 {
	n1 := normalizeForMatch(s1)
	n2 := normalizeForMatch(s2)

	if n1 == n2 {
		if n1 == "" {
			return 0
		}
		return 1.0
	}
	if n1 == "" || n2 == "" {
		return 0
	}

	words1 := strings.Fields(n1)
	words2 := strings.Fields(n2)

	common := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if strings.Contains(w1, w2) || strings.Contains(w2, w1) {
				common++
				break
			}
		}
	}

	return float64(common) / float64(max(len(words1), len(words2)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
