package spotlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOEmbedTestStrategy(handler http.HandlerFunc) (*OEmbedStrategy, *httptest.Server) {
	server := httptest.NewServer(handler)
	strategy := NewOEmbedStrategy()
	strategy.EndpointURL = server.URL
	return strategy, server
}

func TestOEmbedStrategy_Extract(t *testing.T) {
	strategy, server := newOEmbedTestStrategy(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got == "" {
			t.Errorf("oEmbed request missing url parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Test Song by Test Artist"}`))
	})
	defer server.Close()

	ref := &MediaReference{Kind: KindTrack, ID: "abc123"}
	md, err := strategy.Extract(context.Background(), ref)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if md.Title != "Test Song" {
		t.Errorf("Extract() title = %q, want %q", md.Title, "Test Song")
	}
	if md.Artist != "Test Artist" {
		t.Errorf("Extract() artist = %q, want %q", md.Artist, "Test Artist")
	}
}

func TestOEmbedStrategy_Extract_NoByConvention(t *testing.T) {
	strategy, server := newOEmbedTestStrategy(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Standalone Title"}`))
	})
	defer server.Close()

	md, err := strategy.Extract(context.Background(), &MediaReference{Kind: KindAlbum, ID: "xyz"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if md.Title != "Standalone Title" {
		t.Errorf("Extract() title = %q, want %q", md.Title, "Standalone Title")
	}
	if md.Artist != "" {
		t.Errorf("Extract() artist = %q, want empty", md.Artist)
	}
}

func TestOEmbedStrategy_Extract_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Empty title",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"title":""}`))
			},
		},
		{
			name: "Non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "Malformed JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, server := newOEmbedTestStrategy(tt.handler)
			defer server.Close()

			if _, err := strategy.Extract(context.Background(), &MediaReference{Kind: KindTrack, ID: "x"}); err == nil {
				t.Errorf("Extract() error = nil, want error")
			}
		})
	}
}
