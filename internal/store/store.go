package store

import (
	"context"
	"errors"

	"github.com/rmachado/redflix/internal/models"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store defines persistence for the content library, the viewer's profile
// lists, the admin curated lists, and settings. Call sites depend on this
// interface, never on storage keys or SQL.
type Store interface {
	// ReplaceContent swaps the whole content collection in one transaction.
	// Sync is all-or-nothing: either every item lands or nothing changes.
	ReplaceContent(ctx context.Context, items []models.ContentItem) error
	// ListContent returns items matching the filter plus the total count
	// (before limit/offset).
	ListContent(ctx context.Context, filter ContentFilter) ([]models.ContentItem, int, error)
	// GetContentByID returns a single item, or ErrNotFound.
	GetContentByID(ctx context.Context, id int64) (*models.ContentItem, error)

	// GetPlaylistURL returns the stored playlist source URL ("" when unset).
	GetPlaylistURL(ctx context.Context) (string, error)
	// SetPlaylistURL stores the playlist source URL. No shape validation.
	SetPlaylistURL(ctx context.Context, url string) error

	// LoadProfile returns the persisted profile lists (empty when never saved).
	LoadProfile(ctx context.Context) (*models.ProfileLists, error)
	// SaveProfile persists the full profile snapshot.
	SaveProfile(ctx context.Context, p *models.ProfileLists) error

	// GetCuratedLists returns the admin curated lists.
	GetCuratedLists(ctx context.Context) ([]models.CuratedList, error)
	// SaveCuratedLists replaces the admin curated lists.
	SaveCuratedLists(ctx context.Context, lists []models.CuratedList) error
}

// ContentFilter holds optional filters for listing content.
type ContentFilter struct {
	MediaType *models.MediaType
	Group     string // exact match on one of the item's genre tags
	Search    string // case-insensitive substring match on title
	Limit     int    // default 50, max 200
	Offset    int
}
