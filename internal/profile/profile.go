// Package profile keeps the viewer's collections (my list, watch later,
// liked) in memory and mirrors every mutation to the store. The durable
// copy is loaded once at startup.
package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/rmachado/redflix/internal/models"
)

// Storage is the slice of the store the profile service needs.
type Storage interface {
	LoadProfile(ctx context.Context) (*models.ProfileLists, error)
	SaveProfile(ctx context.Context, p *models.ProfileLists) error
}

// Service holds the three collections behind a mutex. All operations are
// idempotent: double adds, removes of absent IDs, and repeated toggles never
// error.
type Service struct {
	mu    sync.Mutex
	store Storage
	lists models.ProfileLists
}

// Load reads the persisted snapshot and returns a ready service.
func Load(ctx context.Context, s Storage) (*Service, error) {
	p, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	svc := &Service{store: s}
	if p != nil {
		svc.lists = *p
	}
	return svc, nil
}

// Lists returns a copy of the current snapshot.
func (s *Service) Lists() models.ProfileLists {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// List returns a copy of one named list.
func (s *Service) List(name models.ListName) []models.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case models.ListMyList:
		return append([]models.ContentItem(nil), s.lists.MyList...)
	case models.ListWatchLater:
		return append([]models.ContentItem(nil), s.lists.WatchLater...)
	}
	return nil
}

// Liked returns a copy of the liked ID set, in insertion order.
func (s *Service) Liked() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.lists.Liked...)
}

// Add appends item to the named list unless an entry with the same ID is
// already there.
func (s *Service) Add(ctx context.Context, name models.ListName, item models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.listLocked(name)
	if target == nil {
		return fmt.Errorf("unknown list %q", name)
	}
	for _, it := range *target {
		if it.ID == item.ID {
			return nil
		}
	}
	*target = append(*target, item)
	return s.persistLocked(ctx)
}

// Remove deletes any entry with the given ID from the named list. Removing
// an absent ID is a no-op.
func (s *Service) Remove(ctx context.Context, name models.ListName, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.listLocked(name)
	if target == nil {
		return fmt.Errorf("unknown list %q", name)
	}
	kept := (*target)[:0]
	changed := false
	for _, it := range *target {
		if it.ID == id {
			changed = true
			continue
		}
		kept = append(kept, it)
	}
	if !changed {
		return nil
	}
	*target = kept
	return s.persistLocked(ctx)
}

// ToggleLiked inserts id into the liked set if absent, else removes it.
// It reports whether the item is liked after the call.
func (s *Service) ToggleLiked(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.lists.Liked {
		if v == id {
			s.lists.Liked = append(s.lists.Liked[:i], s.lists.Liked[i+1:]...)
			return false, s.persistLocked(ctx)
		}
	}
	s.lists.Liked = append(s.lists.Liked, id)
	return true, s.persistLocked(ctx)
}

func (s *Service) listLocked(name models.ListName) *[]models.ContentItem {
	switch name {
	case models.ListMyList:
		return &s.lists.MyList
	case models.ListWatchLater:
		return &s.lists.WatchLater
	}
	return nil
}

func (s *Service) snapshotLocked() models.ProfileLists {
	return models.ProfileLists{
		MyList:     append([]models.ContentItem(nil), s.lists.MyList...),
		WatchLater: append([]models.ContentItem(nil), s.lists.WatchLater...),
		Liked:      append([]int64(nil), s.lists.Liked...),
	}
}

func (s *Service) persistLocked(ctx context.Context) error {
	snap := s.snapshotLocked()
	if err := s.store.SaveProfile(ctx, &snap); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
