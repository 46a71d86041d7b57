package football

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

// minLeagueSize is the smallest plausible top-flight league. A remote
// response with fewer teams (or standings rows) is treated as truncated and
// replaced by the fallback dataset.
const minLeagueSize = 16

// Fetcher is the remote data dependency of the Cache. *Client implements
// it; tests inject fakes.
type Fetcher interface {
	Teams(ctx context.Context) ([]models.Team, error)
	Matches(ctx context.Context) ([]models.Match, error)
	Standings(ctx context.Context) ([]models.Standing, error)
}

// Updater is the persistence collaborator for admin match edits. No
// implementation exists yet: the current design mutates the in-memory copy
// only, and the backing contract is deliberately left open.
type Updater interface {
	SubmitMatchUpdate(ctx context.Context, matchID string, patch MatchPatch) (*models.Match, error)
}

// MatchPatch carries the fields the admin match editor may change.
// Nil fields are left untouched.
type MatchPatch struct {
	Status           *models.MatchStatus `json:"status,omitempty"`
	HomeScore        *int                `json:"homeScore,omitempty"`
	AwayScore        *int                `json:"awayScore,omitempty"`
	BroadcastChannel *string             `json:"broadcastChannel,omitempty"`
}

// ErrStatusReversal is returned when a patch tries to move a match
// backwards in its scheduled -> live -> finished lifecycle.
var ErrStatusReversal = errors.New("match status cannot move backwards")

// Cache memoizes teams and matches for the lifetime of the process and
// degrades to the built-in dataset on any fetch problem. Standings are
// fetched fresh on every call. Callers never receive an error: the result
// is always a usable collection.
//
// Owned by the composition root; the fetcher and clock are injectable so
// tests control both.
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	now     func() time.Time

	teams   []models.Team
	matches []models.Match
}

// NewCache creates a Cache around the given fetcher. now may be nil for
// time.Now.
func NewCache(fetcher Fetcher, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{fetcher: fetcher, now: now}
}

// AllTeams returns the memoized team list, fetching on first use.
func (c *Cache) AllTeams(ctx context.Context) []models.Team {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.teams != nil {
		return c.teams
	}
	teams, err := c.fetcher.Teams(ctx)
	if err != nil || len(teams) < minLeagueSize {
		if err != nil {
			log.Printf("football: teams fetch failed, using fallback: %v", err)
		}
		teams = fallbackTeams()
	}
	c.teams = teams
	return teams
}

// UpcomingMatches returns matches that are scheduled or live.
func (c *Cache) UpcomingMatches(ctx context.Context) []models.Match {
	matches := c.allMatches(ctx)
	var out []models.Match
	for _, m := range matches {
		if m.Status == models.MatchScheduled || m.Status == models.MatchLive {
			out = append(out, m)
		}
	}
	return out
}

// FeaturedMatch picks, in priority order: a live match, the earliest
// scheduled match, the first match in the collection, or nil.
func (c *Cache) FeaturedMatch(ctx context.Context) *models.Match {
	matches := c.allMatches(ctx)
	for _, m := range matches {
		if m.Status == models.MatchLive {
			return &m
		}
	}
	var scheduled []models.Match
	for _, m := range matches {
		if m.Status == models.MatchScheduled {
			scheduled = append(scheduled, m)
		}
	}
	if len(scheduled) > 0 {
		sort.Slice(scheduled, func(i, j int) bool {
			return scheduled[i].KickoffAt.Before(scheduled[j].KickoffAt)
		})
		return &scheduled[0]
	}
	if len(matches) > 0 {
		return &matches[0]
	}
	return nil
}

// Standings fetches the table fresh on every call (unlike teams/matches),
// with the same fallback-on-insufficient-data policy.
func (c *Cache) Standings(ctx context.Context) []models.Standing {
	standings, err := c.fetcher.Standings(ctx)
	if err != nil || len(standings) < minLeagueSize {
		if err != nil {
			log.Printf("football: standings fetch failed, using fallback: %v", err)
		}
		return fallbackStandings()
	}
	return standings
}

// MatchByID is a linear lookup against the memoized match collection.
// Returns nil when the ID is unknown.
func (c *Cache) MatchByID(ctx context.Context, id string) *models.Match {
	for _, m := range c.allMatches(ctx) {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// ApplyMatchUpdate mutates the in-memory copy of a match. The change is not
// persisted anywhere; see Updater. Status patches must move forward in the
// scheduled -> live -> finished order.
func (c *Cache) ApplyMatchUpdate(ctx context.Context, id string, patch MatchPatch) (*models.Match, error) {
	// Populate the cache outside the critical section if needed.
	c.allMatches(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.matches {
		if c.matches[i].ID != id {
			continue
		}
		m := &c.matches[i]
		if patch.Status != nil {
			if patch.Status.Rank() < m.Status.Rank() {
				return nil, fmt.Errorf("%w: %s -> %s", ErrStatusReversal, m.Status, *patch.Status)
			}
			m.Status = *patch.Status
		}
		if patch.HomeScore != nil || patch.AwayScore != nil {
			if m.Score == nil {
				m.Score = &models.Score{}
			}
			if patch.HomeScore != nil {
				m.Score.Home = *patch.HomeScore
			}
			if patch.AwayScore != nil {
				m.Score.Away = *patch.AwayScore
			}
		}
		if patch.BroadcastChannel != nil {
			m.BroadcastChannel = *patch.BroadcastChannel
		}
		out := *m
		return &out, nil
	}
	return nil, fmt.Errorf("match %s: not found", id)
}

// allMatches returns a copy of the cached collection so readers never share
// elements with ApplyMatchUpdate, which mutates them under the lock.
func (c *Cache) allMatches(ctx context.Context) []models.Match {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.matches == nil {
		matches, err := c.fetcher.Matches(ctx)
		if err != nil || len(matches) == 0 {
			if err != nil {
				log.Printf("football: matches fetch failed, using fallback: %v", err)
			}
			matches = fallbackMatches(c.now())
		}
		c.matches = matches
	}
	return append([]models.Match(nil), c.matches...)
}
