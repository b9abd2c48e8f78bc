package applemusic

import (
	"strings"

	"tuneswap/pkg/spotlink"
)

// Query heuristics. The thresholds and the generic-word list are empirically
// chosen; they are kept as named constants rather than re-derived.
const (
	// ShortTitleThreshold is the cleaned-title length below which the artist
	// is prepended to disambiguate a track query.
	ShortTitleThreshold = 8
	// AlbumQueryMaxLen is the combined-query length under which an album
	// query gets the artist prefix.
	AlbumQueryMaxLen = 20
	// MinQueryLength is the minimum usable query length; anything shorter
	// short-circuits to the bare regional search URL.
	MinQueryLength = 2
)

// genericWords are titles too common to search for on their own.
var genericWords = []string{"love", "song", "music", "dance", "party", "night", "day"}

// isGenericTitle reports whether the cleaned title contains one of the
// generic words.
func isGenericTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, w := range genericWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// BuildSearchQuery constructs the search term for an item. Track queries use
// the cleaned title alone unless it is short or generic, in which case the
// artist is prepended. Album queries get the artist prefix while the combined
// query stays under AlbumQueryMaxLen. Artist queries are the name itself.
// The result may be empty when no metadata is available.
func BuildSearchQuery(md *spotlink.TrackMetadata, kind spotlink.Kind) string {
	var query string

	switch kind {
	case spotlink.KindTrack:
		if md.Title != "" {
			cleaned := CleanSongTitle(md.Title)
			query = cleaned
			if (len([]rune(cleaned)) < ShortTitleThreshold || isGenericTitle(cleaned)) && md.Artist != "" {
				query = md.Artist + " " + cleaned
			}
		}
	case spotlink.KindAlbum:
		query = strings.TrimSpace(md.Title)
		if md.Artist != "" {
			combined := md.Artist + " " + query
			if len([]rune(combined)) < AlbumQueryMaxLen {
				query = combined
			}
		}
	case spotlink.KindArtist:
		query = md.Title
		if query == "" {
			query = md.Artist
		}
	default:
		query = md.Title
	}

	query = whitespaceRegex.ReplaceAllString(query, " ")
	return strings.TrimSpace(query)
}

// EntityForKind maps an item kind to the iTunes search entity parameter.
func EntityForKind(kind spotlink.Kind) string {
	switch kind {
	case spotlink.KindAlbum:
		return "album"
	case spotlink.KindArtist:
		return "artist"
	default:
		return "song"
	}
}
