package models

import "time"

// MatchStatus is the lifecycle of a match. Transitions only move forward:
// scheduled -> live -> finished.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
)

// Rank returns the position of s in the scheduled/live/finished order, so
// callers can reject backwards transitions. Unknown statuses rank lowest.
func (s MatchStatus) Rank() int {
	switch s {
	case MatchScheduled:
		return 1
	case MatchLive:
		return 2
	case MatchFinished:
		return 3
	}
	return 0
}

// Team is one club in the competition.
type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	LogoURL        string `json:"logoUrl"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Founded        int    `json:"founded,omitempty"`
	Stadium        string `json:"stadium,omitempty"`
}

// Score is a full-time (or running) score pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Match references two teams plus schedule and broadcast info.
type Match struct {
	ID               string      `json:"id"`
	HomeTeam         Team        `json:"homeTeam"`
	AwayTeam         Team        `json:"awayTeam"`
	Competition      string      `json:"competition"`
	KickoffAt        time.Time   `json:"kickoffAt"`
	Status           MatchStatus `json:"status"`
	Score            *Score      `json:"score,omitempty"`
	BroadcastChannel string      `json:"broadcastChannel,omitempty"`
}

// Standing is one row of the competition table.
type Standing struct {
	Position       int  `json:"position"`
	Team           Team `json:"team"`
	Points         int  `json:"points"`
	Played         int  `json:"played"`
	Wins           int  `json:"wins"`
	Draws          int  `json:"draw"`
	Losses         int  `json:"losses"`
	GoalDifference int  `json:"goalDifference"`
}
