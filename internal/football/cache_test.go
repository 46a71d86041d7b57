package football

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

// fakeFetcher counts calls and returns canned data or errors per method.
type fakeFetcher struct {
	teams     []models.Team
	matches   []models.Match
	standings []models.Standing
	err       error

	teamCalls     int
	matchCalls    int
	standingCalls int
}

func (f *fakeFetcher) Teams(context.Context) ([]models.Team, error) {
	f.teamCalls++
	return f.teams, f.err
}

func (f *fakeFetcher) Matches(context.Context) ([]models.Match, error) {
	f.matchCalls++
	return f.matches, f.err
}

func (f *fakeFetcher) Standings(context.Context) ([]models.Standing, error) {
	f.standingCalls++
	return f.standings, f.err
}

func fixedNow() time.Time {
	return time.Date(2026, 5, 10, 16, 0, 0, 0, time.UTC)
}

func TestAllTeamsFallsBackOnError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	c := NewCache(f, fixedNow)

	teams := c.AllTeams(context.Background())
	if len(teams) != 20 {
		t.Fatalf("fallback should carry 20 teams, got %d", len(teams))
	}
}

func TestAllTeamsFallsBackOnTruncatedLeague(t *testing.T) {
	f := &fakeFetcher{teams: []models.Team{{ID: "1", Name: "Only One"}}}
	c := NewCache(f, fixedNow)

	teams := c.AllTeams(context.Background())
	if len(teams) < minLeagueSize {
		t.Fatalf("truncated response should be replaced by fallback, got %d teams", len(teams))
	}
	for _, team := range teams {
		if team.Name == "Only One" {
			t.Fatal("truncated remote data leaked through")
		}
	}
}

func TestAllTeamsMemoizes(t *testing.T) {
	teams := fallbackTeams()
	f := &fakeFetcher{teams: teams}
	c := NewCache(f, fixedNow)

	c.AllTeams(context.Background())
	c.AllTeams(context.Background())
	if f.teamCalls != 1 {
		t.Errorf("teams fetched %d times, want 1", f.teamCalls)
	}
}

func TestStandingsNotMemoized(t *testing.T) {
	f := &fakeFetcher{err: errors.New("down")}
	c := NewCache(f, fixedNow)

	c.Standings(context.Background())
	c.Standings(context.Background())
	if f.standingCalls != 2 {
		t.Errorf("standings fetched %d times, want 2 (fresh per call)", f.standingCalls)
	}
}

func TestFallbackStandingsConsistency(t *testing.T) {
	teamNames := make(map[string]bool)
	for _, team := range fallbackTeams() {
		teamNames[team.Name] = true
	}

	standings := fallbackStandings()
	if len(standings) != 20 {
		t.Fatalf("expected 20 standings rows, got %d", len(standings))
	}
	for _, s := range standings {
		if !teamNames[s.Team.Name] {
			t.Errorf("standing row for %q references a team outside the fallback list", s.Team.Name)
		}
		if got := 3*s.Wins + s.Draws; s.Points != got {
			t.Errorf("%s: points = %d, want 3*wins+draws = %d", s.Team.Name, s.Points, got)
		}
		if s.Wins+s.Draws+s.Losses != s.Played {
			t.Errorf("%s: wins+draws+losses = %d, played = %d",
				s.Team.Name, s.Wins+s.Draws+s.Losses, s.Played)
		}
	}
	for i := 1; i < len(standings); i++ {
		if standings[i].Points > standings[i-1].Points {
			t.Fatalf("standings not sorted by points at position %d", i+1)
		}
	}
}

func TestFeaturedMatchPrefersLive(t *testing.T) {
	now := fixedNow()
	matches := []models.Match{
		{ID: "a", Status: models.MatchScheduled, KickoffAt: now.Add(time.Hour)},
		{ID: "b", Status: models.MatchLive, KickoffAt: now.Add(-time.Hour)},
		{ID: "c", Status: models.MatchScheduled, KickoffAt: now.Add(2 * time.Hour)},
	}
	c := NewCache(&fakeFetcher{matches: matches}, fixedNow)

	got := c.FeaturedMatch(context.Background())
	if got == nil || got.ID != "b" {
		t.Fatalf("featured = %+v, want the live match", got)
	}
}

func TestFeaturedMatchEarliestScheduled(t *testing.T) {
	now := fixedNow()
	matches := []models.Match{
		{ID: "late", Status: models.MatchScheduled, KickoffAt: now.Add(48 * time.Hour)},
		{ID: "soon", Status: models.MatchScheduled, KickoffAt: now.Add(2 * time.Hour)},
	}
	c := NewCache(&fakeFetcher{matches: matches}, fixedNow)

	got := c.FeaturedMatch(context.Background())
	if got == nil || got.ID != "soon" {
		t.Fatalf("featured = %+v, want the earliest scheduled match", got)
	}
}

func TestFeaturedMatchFallsBackToFirst(t *testing.T) {
	matches := []models.Match{
		{ID: "done1", Status: models.MatchFinished},
		{ID: "done2", Status: models.MatchFinished},
	}
	c := NewCache(&fakeFetcher{matches: matches}, fixedNow)

	got := c.FeaturedMatch(context.Background())
	if got == nil || got.ID != "done1" {
		t.Fatalf("featured = %+v, want the first match", got)
	}
}

func TestMatchesFallbackHasLiveMatch(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)

	featured := c.FeaturedMatch(context.Background())
	if featured == nil {
		t.Fatal("fallback should always produce a featured match")
	}
	if featured.Status != models.MatchLive {
		t.Errorf("fallback featured status = %q, want live", featured.Status)
	}

	upcoming := c.UpcomingMatches(context.Background())
	if len(upcoming) != 3 {
		t.Errorf("fallback upcoming = %d matches, want 3", len(upcoming))
	}
}

func TestMatchByID(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)

	if m := c.MatchByID(context.Background(), "1001"); m == nil {
		t.Error("expected fallback match 1001")
	}
	if m := c.MatchByID(context.Background(), "nope"); m != nil {
		t.Errorf("expected nil for unknown ID, got %+v", m)
	}
}

func TestApplyMatchUpdate(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)
	ctx := context.Background()

	home, away := 2, 1
	finished := models.MatchFinished
	updated, err := c.ApplyMatchUpdate(ctx, "1001", MatchPatch{
		Status:    &finished,
		HomeScore: &home,
		AwayScore: &away,
	})
	if err != nil {
		t.Fatalf("ApplyMatchUpdate: %v", err)
	}
	if updated.Status != models.MatchFinished {
		t.Errorf("status = %q, want finished", updated.Status)
	}
	if updated.Score == nil || updated.Score.Home != 2 || updated.Score.Away != 1 {
		t.Errorf("score = %+v, want 2x1", updated.Score)
	}

	// The edit must stick in the cached collection.
	if m := c.MatchByID(ctx, "1001"); m.Status != models.MatchFinished {
		t.Errorf("cached match status = %q, want finished", m.Status)
	}
}

func TestApplyMatchUpdateRejectsReversal(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)
	ctx := context.Background()

	scheduled := models.MatchScheduled
	// Match 1001 is live in the fallback dataset.
	_, err := c.ApplyMatchUpdate(ctx, "1001", MatchPatch{Status: &scheduled})
	if !errors.Is(err, ErrStatusReversal) {
		t.Fatalf("err = %v, want ErrStatusReversal", err)
	}
	if m := c.MatchByID(ctx, "1001"); m.Status != models.MatchLive {
		t.Errorf("rejected patch mutated the match: status = %q", m.Status)
	}
}

func TestConcurrentReadsAndUpdates(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			score := i
			_, _ = c.ApplyMatchUpdate(ctx, "1001", MatchPatch{HomeScore: &score})
		}
	}()
	for i := 0; i < 200; i++ {
		c.UpcomingMatches(ctx)
		c.FeaturedMatch(ctx)
		c.MatchByID(ctx, "1001")
	}
	<-done
}

func TestReadersGetCopies(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)
	ctx := context.Background()

	matches := c.UpcomingMatches(ctx)
	if len(matches) == 0 {
		t.Fatal("no fallback matches")
	}
	matches[0].Status = models.MatchFinished

	if m := c.MatchByID(ctx, matches[0].ID); m.Status == models.MatchFinished {
		t.Error("reader mutation leaked into the cached collection")
	}
}

func TestApplyMatchUpdateUnknownID(t *testing.T) {
	c := NewCache(&fakeFetcher{err: errors.New("down")}, fixedNow)
	if _, err := c.ApplyMatchUpdate(context.Background(), "nope", MatchPatch{}); err == nil {
		t.Fatal("expected error for unknown match ID")
	}
}
