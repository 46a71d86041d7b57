package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rmachado/redflix/internal/cache"
	"github.com/rmachado/redflix/internal/models"
)

// Cache TTLs for different entity types.
const (
	ttlContentList = 1 * time.Minute
	ttlContentItem = 5 * time.Minute
	ttlCurated     = 2 * time.Minute
)

// CachedStore wraps a Store with a Redis caching layer. Read-heavy catalog
// operations are served from cache when possible; writes invalidate the
// relevant keys. Profile and settings operations pass through: they are
// mutation-heavy and the profile service already keeps them in memory.
type CachedStore struct {
	inner Store
	cache *cache.Redis
}

// NewCachedStore creates a CachedStore that wraps inner with Redis caching.
func NewCachedStore(inner Store, c *cache.Redis) *CachedStore {
	return &CachedStore{inner: inner, cache: c}
}

// contentListResult caches the ListContent tuple.
type contentListResult struct {
	Items []models.ContentItem `json:"items"`
	Total int                  `json:"total"`
}

func (c *CachedStore) ListContent(ctx context.Context, filter ContentFilter) ([]models.ContentItem, int, error) {
	key := fmt.Sprintf("content:%s", filterHash(filter))
	if v, err := cache.Get[contentListResult](ctx, c.cache, key); err == nil {
		return v.Items, v.Total, nil
	}
	items, total, err := c.inner.ListContent(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := cache.Set(ctx, c.cache, key, contentListResult{Items: items, Total: total}, ttlContentList); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return items, total, nil
}

func (c *CachedStore) GetContentByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	key := fmt.Sprintf("content:item:%d", id)
	if v, err := cache.Get[models.ContentItem](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	it, err := c.inner.GetContentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, c.cache, key, it, ttlContentItem); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return it, nil
}

func (c *CachedStore) GetCuratedLists(ctx context.Context) ([]models.CuratedList, error) {
	const key = "curated:all"
	if v, err := cache.Get[[]models.CuratedList](ctx, c.cache, key); err == nil {
		return v, nil
	}
	lists, err := c.inner.GetCuratedLists(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, c.cache, key, lists, ttlCurated); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return lists, nil
}

// --- write operations with cache invalidation ---

func (c *CachedStore) ReplaceContent(ctx context.Context, items []models.ContentItem) error {
	if err := c.inner.ReplaceContent(ctx, items); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "content:*")
	return nil
}

func (c *CachedStore) SaveCuratedLists(ctx context.Context, lists []models.CuratedList) error {
	if err := c.inner.SaveCuratedLists(ctx, lists); err != nil {
		return err
	}
	c.invalidate(ctx, "curated:all")
	return nil
}

// --- passthrough (no caching) ---

func (c *CachedStore) GetPlaylistURL(ctx context.Context) (string, error) {
	return c.inner.GetPlaylistURL(ctx)
}

func (c *CachedStore) SetPlaylistURL(ctx context.Context, url string) error {
	return c.inner.SetPlaylistURL(ctx, url)
}

func (c *CachedStore) LoadProfile(ctx context.Context) (*models.ProfileLists, error) {
	return c.inner.LoadProfile(ctx)
}

func (c *CachedStore) SaveProfile(ctx context.Context, p *models.ProfileLists) error {
	return c.inner.SaveProfile(ctx, p)
}

// --- helpers ---

// invalidate deletes exact cache keys, logging any errors.
func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.cache, keys...); err != nil && err != redis.Nil {
		log.Printf("cache: del %v: %v", keys, err)
	}
}

// invalidatePattern deletes all keys matching the given glob patterns.
func (c *CachedStore) invalidatePattern(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		if err := cache.DelPattern(ctx, c.cache, p); err != nil {
			log.Printf("cache: del pattern %s: %v", p, err)
		}
	}
}

// filterHash produces a short deterministic hash for a ContentFilter so it
// can be used as part of a cache key. MediaType must be hashed by value:
// equal filters built at different call sites carry distinct pointers.
func filterHash(f ContentFilter) string {
	mediaType := ""
	if f.MediaType != nil {
		mediaType = string(*f.MediaType)
	}
	raw := fmt.Sprintf("%s|%s|%s|%d|%d", mediaType, f.Group, f.Search, f.Limit, f.Offset)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}
