package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tigertag/internal/fetch"
	"tigertag/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(fetch.New(fetch.Options{}), logger.New(false))
	c.apiURL = server.URL
	return c
}

const recordingSearchBody = `{
	"recordings": [
		{
			"id": "rec-1",
			"title": "Song Name",
			"first-release-date": "2021-10-19",
			"artist-credit": [
				{"name": "Artist", "artist": {"id": "a1", "name": "Artist", "sort-name": "Artist"}}
			],
			"releases": [
				{"id": "rel-1", "title": "Song Name", "date": "2021-10-19",
				 "release-group": {"id": "rg-1"}}
			]
		}
	]
}`

func TestMatchFull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recording" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q == "" {
			t.Error("missing search query")
		}
		w.Write([]byte(recordingSearchBody))
	})

	result, err := c.Match(context.Background(), "Song Name", "Artist", "Song Name (Single)")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if result.TrackID != "rec-1" {
		t.Errorf("TrackID = %q", result.TrackID)
	}
	if result.Title != "Song Name" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Album != "Song Name" {
		t.Errorf("Album = %q", result.Album)
	}
	if result.Date != "2021-10-19" {
		t.Errorf("Date = %q", result.Date)
	}
}

func TestMatchCleansTitleSeed(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/recording" {
			gotQuery = r.URL.Query().Get("query")
		}
		w.Write([]byte(`{"recordings": []}`))
	})

	if _, err := c.Match(context.Background(), "Song Name (Official Video)", "Artist", ""); err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if want := `Song Name artist:"Artist" release:""`; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestMatchEmptyTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made")
	})
	_, err := c.Match(context.Background(), "   ", "Artist", "Album")
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestMatchArtistFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recording":
			w.Write([]byte(`{"recordings": []}`))
		case "/artist":
			w.Write([]byte(`{"artists": [
				{"id": "other", "name": "Other", "sort-name": "Other"},
				{"id": "a1", "name": "Artist", "sort-name": "Artist"}
			]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	result, err := c.Match(context.Background(), "Obscure Song", "Artist", "")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if result.TrackID != "" {
		t.Errorf("TrackID = %q, want empty", result.TrackID)
	}
	if len(result.ArtistIDs) != 1 || result.ArtistIDs[0] != "a1" {
		t.Errorf("ArtistIDs = %v, want the bare-matched artist", result.ArtistIDs)
	}
}

func TestMatchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := c.Match(context.Background(), "Song", "Artist", ""); err == nil {
		t.Error("Match() should surface a server error")
	}
}
