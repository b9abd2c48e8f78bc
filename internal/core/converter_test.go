package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"tuneswap/internal/store"
	"tuneswap/pkg/spotlink"
)

// fakeResolver returns canned metadata without touching the network.
type fakeResolver struct {
	md     *spotlink.TrackMetadata
	method string
	calls  int
}

func (r *fakeResolver) Resolve(_ context.Context, _ *spotlink.MediaReference) (*spotlink.TrackMetadata, string) {
	r.calls++
	return r.md, r.method
}

// fakeMatcher returns a canned destination.
type fakeMatcher struct {
	dest  string
	exact bool
}

func (m *fakeMatcher) Destination(_ context.Context, _ *spotlink.TrackMetadata, _ spotlink.Kind, _ string) (string, bool) {
	return m.dest, m.exact
}

// fakeStats collects recorded conversions.
type fakeStats struct {
	kinds []string
	err   error
}

func (s *fakeStats) Record(_ context.Context, kind, _ string, _ bool) error {
	s.kinds = append(s.kinds, kind)
	return s.err
}

func newTestConverter(t *testing.T, cfg *Config, resolver MetadataResolver, matcher DestinationFinder, stats StatsRecorder) *Converter {
	t.Helper()

	cache := store.NewResultCache[*ConversionResult](16, store.DefaultBloomFalsePositiveRate)
	return NewConverter(cfg, resolver, matcher, cache, stats, nil, zap.NewNop())
}

func TestConverter_Convert_ExactMatch(t *testing.T) {
	resolver := &fakeResolver{
		md:     &spotlink.TrackMetadata{Title: "Blinding Lights", Artist: "The Weeknd"},
		method: "oembed",
	}
	matcher := &fakeMatcher{
		dest:  "https://music.apple.com/us/album/after-hours/1499378108?i=1499378617",
		exact: true,
	}
	stats := &fakeStats{}
	converter := newTestConverter(t, DefaultConfig(), resolver, matcher, stats)

	result, err := converter.Convert(context.Background(), "https://open.spotify.com/track/abc123")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !result.ExactMatch {
		t.Error("Convert() exact = false, want true")
	}
	if !strings.Contains(result.DestinationURL, "1499378617") {
		t.Errorf("Convert() destination %q does not reference the matched track", result.DestinationURL)
	}
	if result.ResolvedBy != "oembed" {
		t.Errorf("Convert() resolvedBy = %q, want %q", result.ResolvedBy, "oembed")
	}
	if result.Reference.Kind != spotlink.KindTrack || result.Reference.ID != "abc123" {
		t.Errorf("Convert() reference = %+v, want track/abc123", result.Reference)
	}
	if len(stats.kinds) != 1 || stats.kinds[0] != "track" {
		t.Errorf("stats recorded %v, want [track]", stats.kinds)
	}
}

func TestConverter_Convert_SearchFallback(t *testing.T) {
	// Every extraction strategy failed: the identifier placeholder flows
	// through to a search URL and the result is not an exact match.
	resolver := &fakeResolver{
		md:     &spotlink.TrackMetadata{Title: "track_abc123"},
		method: spotlink.FallbackMethod,
	}
	matcher := &fakeMatcher{
		dest: "https://music.apple.com/us/search?term=track_abc123",
	}
	converter := newTestConverter(t, DefaultConfig(), resolver, matcher, &fakeStats{})

	result, err := converter.Convert(context.Background(), "https://open.spotify.com/track/abc123")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.ExactMatch {
		t.Error("Convert() exact = true, want false")
	}
	if result.DestinationURL != "https://music.apple.com/us/search?term=track_abc123" {
		t.Errorf("Convert() destination = %q, want search fallback", result.DestinationURL)
	}
	if result.ResolvedBy != spotlink.FallbackMethod {
		t.Errorf("Convert() resolvedBy = %q, want %q", result.ResolvedBy, spotlink.FallbackMethod)
	}
}

func TestConverter_Convert_NotConvertible(t *testing.T) {
	converter := newTestConverter(t, DefaultConfig(), &fakeResolver{}, &fakeMatcher{}, nil)

	for _, rawURL := range []string{
		"https://example.com/track/abc123",
		"https://open.spotify.com/show/xyz",
		"not a url",
	} {
		if _, err := converter.Convert(context.Background(), rawURL); !errors.Is(err, ErrNotConvertible) {
			t.Errorf("Convert(%q) error = %v, want ErrNotConvertible", rawURL, err)
		}
	}
}

func TestConverter_Convert_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Convert.Enabled = false
	converter := newTestConverter(t, cfg, &fakeResolver{}, &fakeMatcher{}, nil)

	if _, err := converter.Convert(context.Background(), "https://open.spotify.com/track/abc123"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Convert() error = %v, want ErrDisabled", err)
	}
}

func TestConverter_Convert_CacheHit(t *testing.T) {
	resolver := &fakeResolver{
		md:     &spotlink.TrackMetadata{Title: "Blinding Lights"},
		method: "oembed",
	}
	matcher := &fakeMatcher{dest: "https://music.apple.com/us/album/after-hours/1", exact: true}
	converter := newTestConverter(t, DefaultConfig(), resolver, matcher, nil)

	first, err := converter.Convert(context.Background(), "https://open.spotify.com/track/abc123")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	second, err := converter.Convert(context.Background(), "https://open.spotify.com/track/abc123?si=xyz")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if resolver.calls != 1 {
		t.Errorf("resolver called %d times, want 1 (second lookup served from cache)", resolver.calls)
	}
	if first != second {
		t.Error("Convert() cache hit returned a different result value")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Convert.Enabled {
		t.Error("DefaultConfig() conversion disabled, want enabled")
	}
	if cfg.Convert.CountryCode != "us" {
		t.Errorf("DefaultConfig() country = %q, want %q", cfg.Convert.CountryCode, "us")
	}
	if cfg.Convert.MatchThreshold != 0.8 {
		t.Errorf("DefaultConfig() threshold = %v, want 0.8", cfg.Convert.MatchThreshold)
	}
	if cfg.Convert.SearchLimit != 10 {
		t.Errorf("DefaultConfig() search limit = %d, want 10", cfg.Convert.SearchLimit)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("DefaultConfig() port = %d, want 8080", cfg.Server.Port)
	}
}
