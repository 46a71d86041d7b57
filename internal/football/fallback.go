package football

import (
	"time"

	"github.com/rmachado/redflix/internal/models"
)

// Built-in dataset used when the remote API fails or returns an implausibly
// small league. It exists to keep the site populated, not to be accurate.

func fallbackTeams() []models.Team {
	return []models.Team{
		{ID: "1766", Name: "Atlético Mineiro", Slug: "atletico-mg", LogoURL: "https://crests.football-data.org/1766.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1908, Stadium: "Arena MRV"},
		{ID: "1773", Name: "Bahia", Slug: "bahia", LogoURL: "https://crests.football-data.org/1773.png", PrimaryColor: "#0088CC", SecondaryColor: "#FFFFFF", Founded: 1931, Stadium: "Arena Fonte Nova"},
		{ID: "1770", Name: "Botafogo", Slug: "botafogo", LogoURL: "https://crests.football-data.org/1770.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1894, Stadium: "Nilton Santos"},
		{ID: "4291", Name: "Ceará", Slug: "ceara", LogoURL: "https://crests.football-data.org/4291.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1914, Stadium: "Castelão"},
		{ID: "1779", Name: "Corinthians", Slug: "corinthians", LogoURL: "https://crests.football-data.org/1779.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1910, Stadium: "Neo Química Arena"},
		{ID: "1775", Name: "Cruzeiro", Slug: "cruzeiro", LogoURL: "https://crests.football-data.org/1775.png", PrimaryColor: "#003A94", SecondaryColor: "#FFFFFF", Founded: 1921, Stadium: "Mineirão"},
		{ID: "1783", Name: "Flamengo", Slug: "flamengo", LogoURL: "https://crests.football-data.org/1783.png", PrimaryColor: "#C3281E", SecondaryColor: "#000000", Founded: 1895, Stadium: "Maracanã"},
		{ID: "1765", Name: "Fluminense", Slug: "fluminense", LogoURL: "https://crests.football-data.org/1765.png", PrimaryColor: "#8A0F34", SecondaryColor: "#009CA6", Founded: 1902, Stadium: "Maracanã"},
		{ID: "1768", Name: "Fortaleza", Slug: "fortaleza", LogoURL: "https://crests.football-data.org/1768.png", PrimaryColor: "#1D4F99", SecondaryColor: "#E21E26", Founded: 1918, Stadium: "Castelão"},
		{ID: "1767", Name: "Grêmio", Slug: "gremio", LogoURL: "https://crests.football-data.org/1767.png", PrimaryColor: "#0D80BF", SecondaryColor: "#000000", Founded: 1903, Stadium: "Arena do Grêmio"},
		{ID: "1785", Name: "Internacional", Slug: "internacional", LogoURL: "https://crests.football-data.org/1785.png", PrimaryColor: "#C8102E", SecondaryColor: "#FFFFFF", Founded: 1909, Stadium: "Beira-Rio"},
		{ID: "4289", Name: "Juventude", Slug: "juventude", LogoURL: "https://crests.football-data.org/4289.svg", PrimaryColor: "#009444", SecondaryColor: "#FFFFFF", Founded: 1913, Stadium: "Alfredo Jaconi"},
		{ID: "6001", Name: "Mirassol", Slug: "mirassol", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/4/4d/Mirassol_Futebol_Clube_logo.svg", PrimaryColor: "#FDD116", SecondaryColor: "#006437", Founded: 1925, Stadium: "Maião"},
		{ID: "1769", Name: "Palmeiras", Slug: "palmeiras", LogoURL: "https://crests.football-data.org/1769.svg", PrimaryColor: "#006437", SecondaryColor: "#FFFFFF", Founded: 1914, Stadium: "Allianz Parque"},
		{ID: "6676", Name: "Red Bull Bragantino", Slug: "bragantino", LogoURL: "https://crests.football-data.org/6676.png", PrimaryColor: "#E30613", SecondaryColor: "#FFFFFF", Founded: 1928, Stadium: "Nabi Abi Chedid"},
		{ID: "1777", Name: "Santos", Slug: "santos", LogoURL: "https://crests.football-data.org/1777.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1912, Stadium: "Vila Belmiro"},
		{ID: "1776", Name: "São Paulo", Slug: "sao-paulo", LogoURL: "https://crests.football-data.org/1776.png", PrimaryColor: "#C62027", SecondaryColor: "#000000", Founded: 1930, Stadium: "Morumbi"},
		{ID: "1780", Name: "Sport Recife", Slug: "sport-recife", LogoURL: "https://crests.football-data.org/1780.png", PrimaryColor: "#E21E26", SecondaryColor: "#000000", Founded: 1905, Stadium: "Ilha do Retiro"},
		{ID: "1774", Name: "Vasco da Gama", Slug: "vasco-da-gama", LogoURL: "https://crests.football-data.org/1774.png", PrimaryColor: "#000000", SecondaryColor: "#FFFFFF", Founded: 1898, Stadium: "São Januário"},
		{ID: "4286", Name: "Vitória", Slug: "vitoria", LogoURL: "https://crests.football-data.org/4286.png", PrimaryColor: "#FF0000", SecondaryColor: "#000000", Founded: 1899, Stadium: "Barradão"},
	}
}

// fallbackMatches builds three matches around now: one live, two scheduled.
func fallbackMatches(now time.Time) []models.Match {
	teams := fallbackTeams()
	byName := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		byName[t.Slug] = t
	}
	return []models.Match{
		{
			ID:               "1001",
			HomeTeam:         byName["palmeiras"],
			AwayTeam:         byName["flamengo"],
			Competition:      defaultCompetition,
			KickoffAt:        now.Add(-30 * time.Minute),
			Status:           models.MatchLive,
			Score:            &models.Score{Home: 1, Away: 0},
			BroadcastChannel: "Globo",
		},
		{
			ID:               "1002",
			HomeTeam:         byName["corinthians"],
			AwayTeam:         byName["sao-paulo"],
			Competition:      defaultCompetition,
			KickoffAt:        now.Add(24 * time.Hour),
			Status:           models.MatchScheduled,
			BroadcastChannel: "Premiere",
		},
		{
			ID:               "1003",
			HomeTeam:         byName["gremio"],
			AwayTeam:         byName["internacional"],
			Competition:      defaultCompetition,
			KickoffAt:        now.Add(48 * time.Hour),
			Status:           models.MatchScheduled,
			BroadcastChannel: "SporTV",
		},
	}
}

// fallbackStandings derives a table from the fixed team list with a
// monotonically decreasing placement formula. Points always equal
// 3*wins + draws.
func fallbackStandings() []models.Standing {
	teams := fallbackTeams()
	standings := make([]models.Standing, 0, len(teams))
	for i, team := range teams {
		const played = 32
		wins := 24 - i
		losses := 3 + (i*8)/10
		draws := played - wins - losses
		standings = append(standings, models.Standing{
			Position:       i + 1,
			Team:           team,
			Points:         3*wins + draws,
			Played:         played,
			Wins:           wins,
			Draws:          draws,
			Losses:         losses,
			GoalDifference: 30 - i*5,
		})
	}
	return standings
}
