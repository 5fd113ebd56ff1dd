// Package config defines skillrank configuration structures and loading hooks.
//
// Conventions:
// - Flat koanf keys so env vars map 1:1 (SKILLRANK_RATING_MU -> rating_mu).
// - New() returns defaults; Load(ctx) layers file and env on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"github.com/okian/skillrank/internal/domain/rating"
)

// Supported SQL drivers for the data gateway.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// DBDriver selects the SQL driver: sqlite3 or pgx.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the data source name (a file path for sqlite3).
	DBDSN string `koanf:"db_dsn"`

	// DBSetsOrder names the column that orders sets chronologically.
	// Empty means rowid on sqlite3; pgx requires it.
	DBSetsOrder string `koanf:"db_sets_order"`

	// OutputPath is where the leaderboard CSV is written.
	OutputPath string `koanf:"output_path"`

	// ProgressEvery sets how many matches pass between progress logs.
	ProgressEvery int `koanf:"progress_every"`

	// Rating model parameters.
	RatingMu        float64 `koanf:"rating_mu"`
	RatingSigma     float64 `koanf:"rating_sigma"`
	RatingBeta      float64 `koanf:"rating_beta"`
	RatingTau       float64 `koanf:"rating_tau"`
	DrawProbability float64 `koanf:"draw_probability"`
	RankMultiplier  float64 `koanf:"rank_multiplier"`

	// RedisAddr enables publishing the leaderboard to Redis when non-empty.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`

	// MetricsFile, when set, receives a Prometheus textfile dump at the end
	// of the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		DBDriver:        DriverSQLite,
		DBDSN:           "./data/ultimate_player_database.db",
		OutputPath:      "./data/results.csv",
		ProgressEvery:   100_000,
		RatingMu:        rating.DefaultMu,
		RatingSigma:     rating.DefaultSigma,
		RatingBeta:      rating.DefaultBeta,
		RatingTau:       rating.DefaultTau,
		DrawProbability: rating.DefaultDrawProbability,
		RankMultiplier:  rating.DefaultRankMultiplier,
		RedisKey:        "skillrank:leaderboard",
	}
}

// Rating returns the rating model parameters.
func (c *Config) Rating() rating.Config {
	return rating.Config{
		Mu:              c.RatingMu,
		Sigma:           c.RatingSigma,
		Beta:            c.RatingBeta,
		Tau:             c.RatingTau,
		DrawProbability: c.DrawProbability,
		RankMultiplier:  c.RankMultiplier,
	}
}
