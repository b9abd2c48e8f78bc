package applemusic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearcher_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for param, want := range map[string]string{
			"term":    "Blinding Lights",
			"country": "us",
			"media":   "music",
			"entity":  "song",
			"limit":   "10",
		} {
			if got := q.Get(param); got != want {
				t.Errorf("query param %s = %q, want %q", param, got, want)
			}
		}

		fmt.Fprint(w, `{"resultCount":1,"results":[{`+
			`"wrapperType":"track","kind":"song","trackId":1499378617,`+
			`"collectionId":1499378108,"trackName":"Blinding Lights",`+
			`"collectionName":"After Hours","artistName":"The Weeknd"}]}`)
	}))
	defer server.Close()

	searcher := NewSearcher()
	searcher.EndpointURL = server.URL

	results, err := searcher.Search(context.Background(), "Blinding Lights", "us", "song")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if results[0].TrackName != "Blinding Lights" {
		t.Errorf("Search() track name = %q, want %q", results[0].TrackName, "Blinding Lights")
	}
	if results[0].TrackID != 1499378617 {
		t.Errorf("Search() track id = %d, want %d", results[0].TrackID, 1499378617)
	}
}

func TestSearcher_Search_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"resultCount":0,"results":[]}`)
	}))
	defer server.Close()

	searcher := NewSearcher()
	searcher.EndpointURL = server.URL

	results, err := searcher.Search(context.Background(), "no such song", "us", "song")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() returned %d results, want 0", len(results))
	}
}

func TestSearcher_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	searcher := NewSearcher()
	searcher.EndpointURL = server.URL

	if _, err := searcher.Search(context.Background(), "anything", "us", "song"); err == nil {
		t.Error("Search() expected error on server failure, got nil")
	}
}

func TestCandidate_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		c        Candidate
		expected string
	}{
		{"Track name preferred", Candidate{TrackName: "Song", CollectionName: "Album", ArtistName: "Artist"}, "Song"},
		{"Collection name next", Candidate{CollectionName: "Album", ArtistName: "Artist"}, "Album"},
		{"Artist name last", Candidate{ArtistName: "Artist"}, "Artist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
