package spotlink

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// APIStrategy resolves metadata through the Spotify Web API using the
// client-credentials flow. It is optional; the resolver chain only includes
// it when credentials are configured, and any authentication or lookup error
// simply falls through to the scraping strategies.
type APIStrategy struct {
	clientID     string
	clientSecret string

	mu     sync.Mutex
	client *spotify.Client
}

// NewAPIStrategy creates a Web API extraction strategy with the given
// client credentials.
func NewAPIStrategy(clientID, clientSecret string) *APIStrategy {
	return &APIStrategy{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Name identifies the strategy.
func (s *APIStrategy) Name() string { return "api" }

// Extract looks the referenced item up through the Web API.
func (s *APIStrategy) Extract(ctx context.Context, ref *MediaReference) (*TrackMetadata, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify API: %w", err)
	}

	switch ref.Kind {
	case KindTrack:
		track, err := client.GetTrack(ctx, spotify.ID(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("track lookup failed: %w", err)
		}
		return &TrackMetadata{
			Title:      track.Name,
			Artist:     joinArtists(track.Artists),
			Album:      track.Album.Name,
			ISRC:       track.ExternalIDs["isrc"],
			DurationMs: int64(track.Duration),
		}, nil

	case KindAlbum:
		album, err := client.GetAlbum(ctx, spotify.ID(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("album lookup failed: %w", err)
		}
		return &TrackMetadata{
			Title:  album.Name,
			Artist: joinArtists(album.Artists),
		}, nil

	case KindArtist:
		artist, err := client.GetArtist(ctx, spotify.ID(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("artist lookup failed: %w", err)
		}
		return &TrackMetadata{Title: artist.Name}, nil

	case KindPlaylist:
		playlist, err := client.GetPlaylist(ctx, spotify.ID(ref.ID))
		if err != nil {
			return nil, fmt.Errorf("playlist lookup failed: %w", err)
		}
		return &TrackMetadata{Title: playlist.Name}, nil
	}

	return nil, fmt.Errorf("unsupported item kind %q", ref.Kind)
}

// ensureClient lazily authenticates with the client-credentials flow and
// caches the resulting client for subsequent lookups.
func (s *APIStrategy) ensureClient(ctx context.Context) (*spotify.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	config := &clientcredentials.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return s.client, nil
}

// joinArtists flattens a list of artists into the comma-separated form the
// matching layer expects; the primary artist comes first.
func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
