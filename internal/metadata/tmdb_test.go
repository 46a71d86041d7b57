package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

const trendingPage = `{
  "page": 1,
  "results": [
    {"id": 1, "title": "Good Movie", "overview": "desc", "backdrop_path": "/a.jpg",
     "release_date": "2024-03-01", "genre_ids": [28, 35], "vote_average": 8.1, "media_type": "movie"},
    {"id": 2, "title": "No Image", "overview": "desc", "backdrop_path": "",
     "release_date": "2024-03-01"},
    {"id": 3, "title": "No Overview", "overview": "", "backdrop_path": "/b.jpg"},
    {"id": 4, "name": "Good Show", "overview": "desc", "backdrop_path": "/c.jpg",
     "first_air_date": "2022-01-15", "media_type": "tv"}
  ]
}`

func TestCatalog(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(trendingPage))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "test-key", "", 5*time.Second)
	items, err := c.Catalog(context.Background(), "trending")
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items after filtering, got %d", len(items))
	}

	movie := items[0]
	if movie.Title != "Good Movie" {
		t.Errorf("title = %q", movie.Title)
	}
	if movie.MediaType != models.MediaTypeMovie {
		t.Errorf("media type = %q, want movie", movie.MediaType)
	}
	if movie.Year != 2024 {
		t.Errorf("year = %d, want 2024", movie.Year)
	}
	if movie.Match != 81 {
		t.Errorf("match = %d, want 81 (vote_average*10)", movie.Match)
	}
	if len(movie.Genres) != 2 || movie.Genres[0] != "Ação" || movie.Genres[1] != "Comédia" {
		t.Errorf("genres = %v", movie.Genres)
	}
	if movie.ThumbnailURL != imageBaseURL+"/a.jpg" {
		t.Errorf("thumbnail = %q", movie.ThumbnailURL)
	}

	show := items[1]
	if show.Title != "Good Show" {
		t.Errorf("tv title = %q, want name field", show.Title)
	}
	if show.MediaType != models.MediaTypeTV {
		t.Errorf("tv media type = %q", show.MediaType)
	}
	if show.Year != 2022 {
		t.Errorf("tv year = %d, want 2022", show.Year)
	}

	for _, want := range []string{"api_key=test-key", "language=pt-BR"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestCatalogAppendsToExistingQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "k", "", 5*time.Second)
	if _, err := c.Catalog(context.Background(), "originals"); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if !strings.Contains(gotQuery, "with_networks=213") || !strings.Contains(gotQuery, "api_key=k") {
		t.Errorf("query = %q, want network filter plus key", gotQuery)
	}
}

func TestCatalogUnknownCategory(t *testing.T) {
	c := NewClient("k", "", time.Second)
	if _, err := c.Catalog(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestCatalogUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, "k", "", 5*time.Second)
	if _, err := c.Catalog(context.Background(), "trending"); err == nil {
		t.Fatal("expected error for HTTP 401")
	}
}
