// Package metadata wraps the TMDB API for the browse rows. Results are
// filtered to entries carrying both an image and a description, then mapped
// into content items.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	imageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultLanguage = "pt-BR"
)

// Categories served by Catalog, in the order the home page shows them.
var categoryPaths = map[string]string{
	"trending":      "/trending/all/week",
	"originals":     "/discover/tv?with_networks=213",
	"top-rated":     "/movie/top_rated",
	"action":        "/discover/movie?with_genres=28",
	"comedy":        "/discover/movie?with_genres=35",
	"horror":        "/discover/movie?with_genres=27",
	"romance":       "/discover/movie?with_genres=10749",
	"documentaries": "/discover/movie?with_genres=99",
	"tv":            "/discover/tv",
}

// genreNames maps TMDB genre IDs to the display names the UI uses.
var genreNames = map[int]string{
	28: "Ação", 12: "Aventura", 16: "Animação", 35: "Comédia", 80: "Crime",
	99: "Documentário", 18: "Drama", 10751: "Família", 14: "Fantasia", 36: "História",
	27: "Terror", 10402: "Música", 9648: "Mistério", 10749: "Romance", 878: "Ficção Científica",
	10770: "Filme TV", 53: "Suspense", 10752: "Guerra", 37: "Faroeste",
	10759: "Ação e Aventura", 10762: "Kids", 10763: "News", 10764: "Reality",
	10765: "Sci-Fi & Fantasy", 10766: "Novela", 10767: "Talk", 10768: "War & Politics",
}

// Client is a keyed, language-parameterized TMDB client.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

// NewClient creates a TMDB client. language defaults to pt-BR.
func NewClient(apiKey, language string, timeout time.Duration) *Client {
	if language == "" {
		language = defaultLanguage
	}
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL is NewClient with an overridable endpoint, for tests.
func NewClientWithBaseURL(baseURL, apiKey, language string, timeout time.Duration) *Client {
	c := NewClient(apiKey, language, timeout)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Categories returns the known catalog category keys.
func Categories() []string {
	out := make([]string, 0, len(categoryPaths))
	for k := range categoryPaths {
		out = append(out, k)
	}
	return out
}

type tmdbResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	Overview     string  `json:"overview"`
	BackdropPath string  `json:"backdrop_path"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
}

type tmdbPage struct {
	Page    int          `json:"page"`
	Results []tmdbResult `json:"results"`
}

// Catalog fetches one category row. Unknown categories yield an error;
// upstream failures are the caller's to map (the HTTP layer degrades them
// to an empty row).
func (c *Client) Catalog(ctx context.Context, category string) ([]models.ContentItem, error) {
	path, ok := categoryPaths[category]
	if !ok {
		return nil, fmt.Errorf("unknown catalog category %q", category)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	endpoint := fmt.Sprintf("%s%s%sapi_key=%s&language=%s",
		c.baseURL, path, sep, url.QueryEscape(c.apiKey), url.QueryEscape(c.language))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb %s: %w", category, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb %s: HTTP %d", category, resp.StatusCode)
	}

	var page tmdbPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("tmdb %s: decode: %w", category, err)
	}

	items := make([]models.ContentItem, 0, len(page.Results))
	for _, r := range page.Results {
		// Entries without an image or description render as broken cards.
		if r.BackdropPath == "" || r.Overview == "" {
			continue
		}
		items = append(items, mapResult(r))
	}
	return items, nil
}

func mapResult(r tmdbResult) models.ContentItem {
	isTV := r.MediaType == "tv" || r.Name != ""

	title := r.Title
	if title == "" {
		title = r.Name
	}
	if title == "" {
		title = r.OriginalName
	}

	genres := make([]string, 0, len(r.GenreIDs))
	for _, id := range r.GenreIDs {
		if name, ok := genreNames[id]; ok {
			genres = append(genres, name)
		}
	}
	if len(genres) == 0 {
		genres = []string{"Geral"}
	}

	match := int(r.VoteAverage * 10)
	if match == 0 {
		match = 85 + rand.Intn(15)
	}

	item := models.ContentItem{
		ID:           int64(r.ID),
		Title:        title,
		Description:  r.Overview,
		ThumbnailURL: imageBaseURL + r.BackdropPath,
		Genres:       genres,
		Match:        match,
		Year:         releaseYear(r),
		MediaType:    models.MediaTypeMovie,
		Rating:       "14",
	}
	if isTV {
		item.MediaType = models.MediaTypeTV
		item.Rating = "16"
		item.Duration = fmt.Sprintf("%d Temporadas", 1+rand.Intn(3))
	} else {
		item.Duration = fmt.Sprintf("%dm", 90+rand.Intn(60))
	}
	return item
}

func releaseYear(r tmdbResult) int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	return 2023
}
