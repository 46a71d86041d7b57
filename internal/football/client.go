// Package football fetches and caches team, match, and standings data for a
// single competition, degrading to a built-in dataset when the remote API is
// unavailable.
package football

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/rmachado/redflix/internal/models"
)

const defaultCompetition = "Brasileirão Série A"

// Client talks to the sports-data proxy. It returns typed results and real
// errors; the fallback decision belongs to Cache, never here.
type Client struct {
	baseURL     string
	apiKey      string
	competition int
	httpClient  *http.Client
}

// NewClient creates a football API client for one competition.
func NewClient(baseURL, apiKey string, competition int, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		competition: competition,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// upstream wire shapes (football-data.org style, as exposed by the proxy)

type apiTeam struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	TLA     string `json:"tla"`
	Crest   string `json:"crest"`
	Founded int    `json:"founded"`
	Venue   string `json:"venue"`
}

type apiMatch struct {
	ID          int     `json:"id"`
	UTCDate     string  `json:"utcDate"`
	Status      string  `json:"status"`
	HomeTeam    apiTeam `json:"homeTeam"`
	AwayTeam    apiTeam `json:"awayTeam"`
	Competition struct {
		Name string `json:"name"`
	} `json:"competition"`
	Score struct {
		FullTime *struct {
			Home int `json:"home"`
			Away int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type apiStanding struct {
	Position       int     `json:"position"`
	Team           apiTeam `json:"team"`
	Points         int     `json:"points"`
	PlayedGames    int     `json:"playedGames"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	GoalDifference int     `json:"goalDifference"`
}

// Teams fetches the competition's team list.
func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	var payload struct {
		Teams []apiTeam `json:"teams"`
	}
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d/teams", c.competition), &payload); err != nil {
		return nil, err
	}
	teams := make([]models.Team, 0, len(payload.Teams))
	for _, t := range payload.Teams {
		teams = append(teams, mapTeam(t))
	}
	return teams, nil
}

// Matches fetches the competition's match list.
func (c *Client) Matches(ctx context.Context) ([]models.Match, error) {
	var payload struct {
		Matches []apiMatch `json:"matches"`
	}
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d/matches", c.competition), &payload); err != nil {
		return nil, err
	}
	matches := make([]models.Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		matches = append(matches, mapMatch(m))
	}
	return matches, nil
}

// Standings fetches the competition table.
func (c *Client) Standings(ctx context.Context) ([]models.Standing, error) {
	var payload struct {
		Standings []struct {
			Table []apiStanding `json:"table"`
		} `json:"standings"`
	}
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d/standings", c.competition), &payload); err != nil {
		return nil, err
	}
	if len(payload.Standings) == 0 {
		return nil, nil
	}
	table := payload.Standings[0].Table
	standings := make([]models.Standing, 0, len(table))
	for _, s := range table {
		standings = append(standings, models.Standing{
			Position:       s.Position,
			Team:           mapTeam(s.Team),
			Points:         s.Points,
			Played:         s.PlayedGames,
			Wins:           s.Won,
			Draws:          s.Draw,
			Losses:         s.Lost,
			GoalDifference: s.GoalDifference,
		})
	}
	return standings, nil
}

// get performs an authenticated GET with a short retry backoff; transient
// 5xx responses and transport errors are retried twice.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	url := c.baseURL + endpoint
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			req.Header.Set("apikey", c.apiKey)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
		return nil
	})
}

func mapTeam(t apiTeam) models.Team {
	slug := strings.ToLower(t.TLA)
	if slug == "" {
		slug = strings.ReplaceAll(strings.ToLower(t.Name), " ", "-")
	}
	logo := t.Crest
	if logo == "" {
		logo = "https://via.placeholder.com/150?text=No+Logo"
	}
	return models.Team{
		ID:      strconv.Itoa(t.ID),
		Name:    t.Name,
		Slug:    slug,
		LogoURL: logo,
		Founded: t.Founded,
		Stadium: t.Venue,
		// Colors are not carried by the API.
		PrimaryColor:   "#333333",
		SecondaryColor: "#FFFFFF",
	}
}

func mapMatch(m apiMatch) models.Match {
	kickoff, _ := time.Parse(time.RFC3339, m.UTCDate)

	var status models.MatchStatus
	switch m.Status {
	case "IN_PLAY", "PAUSED":
		status = models.MatchLive
	case "FINISHED":
		status = models.MatchFinished
	default: // SCHEDULED, TIMED, ...
		status = models.MatchScheduled
	}

	competition := m.Competition.Name
	if competition == "" {
		competition = defaultCompetition
	}

	out := models.Match{
		ID:               strconv.Itoa(m.ID),
		HomeTeam:         mapTeam(m.HomeTeam),
		AwayTeam:         mapTeam(m.AwayTeam),
		Competition:      competition,
		KickoffAt:        kickoff,
		Status:           status,
		BroadcastChannel: "Premiere", // not carried by the API
	}
	if m.Score.FullTime != nil {
		out.Score = &models.Score{Home: m.Score.FullTime.Home, Away: m.Score.FullTime.Away}
	}
	return out
}
