// Package config loads application configuration from the environment, with
// an optional YAML file overlay for deployments that prefer files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config holds all runtime settings.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	ServerPort  string `yaml:"server_port"`

	// Playlist fetching
	UserAgent        string        `yaml:"user_agent"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	PlaylistRelayURL string        `yaml:"playlist_relay_url"`
	SyncSchedule     string        `yaml:"sync_schedule"`

	// TMDB catalog
	TMDBAPIKey   string `yaml:"tmdb_api_key"`
	TMDBLanguage string `yaml:"tmdb_language"`

	// Gemini chat
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Football data
	FootballAPIURL      string `yaml:"football_api_url"`
	FootballAPIKey      string `yaml:"football_api_key"`
	FootballCompetition string `yaml:"football_competition"`
}

// Load reads configuration from environment variables. If CONFIG_FILE points
// at a YAML file, its values are loaded first and the environment overrides
// them.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:          "8080",
		UserAgent:           "VLC/3.0.18 LibVLC/3.0.18",
		FetchTimeout:        60 * time.Second,
		TMDBLanguage:        "pt-BR",
		GeminiModel:         "gemini-2.5-flash",
		FootballAPIURL:      "https://api.football-data.org/v4",
		FootballCompetition: "2013", // Brasileirão Série A
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.UserAgent, "PLAYLIST_USER_AGENT")
	setString(&cfg.PlaylistRelayURL, "PLAYLIST_RELAY_URL")
	setString(&cfg.SyncSchedule, "SYNC_SCHEDULE")
	setString(&cfg.TMDBAPIKey, "TMDB_API_KEY")
	setString(&cfg.TMDBLanguage, "TMDB_LANGUAGE")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.FootballAPIURL, "FOOTBALL_API_URL")
	setString(&cfg.FootballAPIKey, "FOOTBALL_API_KEY")
	setString(&cfg.FootballCompetition, "FOOTBALL_COMPETITION")

	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.FetchTimeout = time.Duration(secs) * time.Second
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
