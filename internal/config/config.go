// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SubmissionQueueSize bounds the in-memory submission intake queue.
	SubmissionQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of submission recording workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET leaderboard ?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ConsensusHighStddev and ConsensusLowStddev are the stddev cut points
	// for consensus classification. Presentation policy, not constants.
	ConsensusHighStddev float64 `koanf:"consensus_high_stddev"`
	ConsensusLowStddev  float64 `koanf:"consensus_low_stddev"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		SubmissionQueueSize: 10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          100_000,
		MaxLeaderboardLimit: 100,
		ConsensusHighStddev: 5,
		ConsensusLowStddev:  10,
	}
}
