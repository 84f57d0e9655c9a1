// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and TALLY_* env vars.
// - External errors are wrapped via this package's sentinel errors.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory report queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the report-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the scoreboard store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// TierMultipliers maps subscription tiers to score multipliers.
	TierMultipliers map[string]float64 `koanf:"tier_multipliers"`

	// DefaultTierMultiplier applies to unknown or missing tiers.
	DefaultTierMultiplier float64 `koanf:"default_tier_multiplier"`

	// LoyaltyBonusRate is the per-year score adjustment rate.
	LoyaltyBonusRate float64 `koanf:"loyalty_bonus_rate"`

	// LoyaltyYearCap bounds the account-age years used for the adjustment.
	LoyaltyYearCap int `koanf:"loyalty_year_cap"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          500_000,
		ShardCount:          8,
		MaxLeaderboardLimit: 100,
		TierMultipliers: map[string]float64{
			"vip": 1.2,
			"pro": 1.1,
		},
		DefaultTierMultiplier: 1.0,
		LoyaltyBonusRate:      0.005,
		LoyaltyYearCap:        6,
	}
}
