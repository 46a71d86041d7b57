// Package library owns the playlist-sourced content collection: where the
// playlist lives, how it becomes content items, and how they are read back.
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rmachado/redflix/internal/models"
	"github.com/rmachado/redflix/internal/playlist"
	"github.com/rmachado/redflix/internal/store"
)

// ErrNoSourceURL is returned by Sync when no playlist URL has been stored.
var ErrNoSourceURL = errors.New("playlist source URL is not set")

// Fetcher downloads and parses a playlist document. Injectable so tests can
// run syncs without a network.
type Fetcher func(ctx context.Context, url, relayURL, userAgent string, timeout time.Duration) ([]models.ContentItem, error)

// Summary reports what a sync produced. Channels counts tv items in a live
// channel group; Series is the remaining tv items.
type Summary struct {
	Total    int `json:"total"`
	Movies   int `json:"movies"`
	Series   int `json:"series"`
	Channels int `json:"channels"`
}

// Service orchestrates playlist syncs against the store.
type Service struct {
	store     store.Store
	fetch     Fetcher
	relayURL  string
	userAgent string
	timeout   time.Duration
}

// New creates a library service. fetch may be nil, in which case the real
// HTTP fetcher is used.
func New(s store.Store, fetch Fetcher, relayURL, userAgent string, timeout time.Duration) *Service {
	if fetch == nil {
		fetch = playlist.Fetch
	}
	return &Service{store: s, fetch: fetch, relayURL: relayURL, userAgent: userAgent, timeout: timeout}
}

// SetSourceURL stores the playlist source address. The URL shape is not
// validated; a bad URL surfaces as a FetchError on the next sync.
func (s *Service) SetSourceURL(ctx context.Context, url string) error {
	return s.store.SetPlaylistURL(ctx, url)
}

// SourceURL returns the stored playlist source address ("" when unset).
func (s *Service) SourceURL(ctx context.Context) (string, error) {
	return s.store.GetPlaylistURL(ctx)
}

// Sync fetches the playlist at the stored source URL, parses it, and
// replaces the stored collection wholesale. On any failure the previously
// stored collection is left untouched.
func (s *Service) Sync(ctx context.Context) (*Summary, error) {
	url, err := s.store.GetPlaylistURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source url: %w", err)
	}
	if url == "" {
		return nil, ErrNoSourceURL
	}

	items, err := s.fetch(ctx, url, s.relayURL, s.userAgent, s.timeout)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceContent(ctx, items); err != nil {
		return nil, fmt.Errorf("replace content: %w", err)
	}
	return Summarize(items), nil
}

// Summarize counts items per classification the way the admin banner
// reports them.
func Summarize(items []models.ContentItem) *Summary {
	sum := &Summary{Total: len(items)}
	for _, it := range items {
		switch {
		case it.MediaType == models.MediaTypeMovie:
			sum.Movies++
		case playlist.IsLiveChannel(it):
			sum.Channels++
		default:
			sum.Series++
		}
	}
	return sum
}

// All returns the currently stored collection matching the filter.
func (s *Service) All(ctx context.Context, filter store.ContentFilter) ([]models.ContentItem, int, error) {
	return s.store.ListContent(ctx, filter)
}

// ByID returns one item, or store.ErrNotFound.
func (s *Service) ByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	return s.store.GetContentByID(ctx, id)
}
