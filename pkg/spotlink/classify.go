package spotlink

import (
	"regexp"
)

// linkPatterns are tested in fixed priority order; the first match wins.
var linkPatterns = []struct {
	kind    Kind
	pattern *regexp.Regexp
}{
	{KindTrack, regexp.MustCompile(`spotify\.com/track/([a-zA-Z0-9]+)`)},
	{KindAlbum, regexp.MustCompile(`spotify\.com/album/([a-zA-Z0-9]+)`)},
	{KindArtist, regexp.MustCompile(`spotify\.com/artist/([a-zA-Z0-9]+)`)},
	{KindPlaylist, regexp.MustCompile(`spotify\.com/playlist/([a-zA-Z0-9]+)`)},
}

// Classify determines whether rawURL references a Spotify track, album,
// artist or playlist and extracts the canonical identifier. It returns nil
// when the URL does not reference a convertible item; that is not an error,
// most URLs legitimately aren't Spotify links.
func Classify(rawURL string) *MediaReference {
	for _, lp := range linkPatterns {
		if m := lp.pattern.FindStringSubmatch(rawURL); m != nil {
			return &MediaReference{
				Kind:      lp.kind,
				ID:        m[1],
				SourceURL: rawURL,
			}
		}
	}
	return nil
}
