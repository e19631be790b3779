// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration for the allocation service.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterPath points at an optional YAML roster file for the capability
	// directory. Empty means the built-in seed roster is used.
	RosterPath string `koanf:"roster_path"`

	// DirectoryTTLSeconds bounds how long the directory cache serves a
	// snapshot before reloading from its source.
	DirectoryTTLSeconds int `koanf:"directory_ttl_seconds"`

	// ProviderModel names the decomposition provider model.
	ProviderModel string `koanf:"provider_model"`

	// ProviderTimeoutMS bounds a single decomposition provider call.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// ProviderMaxTokens caps provider output size per call.
	ProviderMaxTokens int `koanf:"provider_max_tokens"`

	// UseBedrock routes provider calls through AWS Bedrock instead of the
	// direct API. AWSRegion and AWSProfile apply only in that mode.
	UseBedrock bool   `koanf:"use_bedrock"`
	AWSRegion  string `koanf:"aws_region"`
	AWSProfile string `koanf:"aws_profile"`

	// ScoreWeights overrides the default scoring weights. Keys: skill_match,
	// experience, availability, past_performance, expertise_depth. The values
	// must sum to 1.0.
	ScoreWeights map[string]float64 `koanf:"score_weights"`

	// CandidateCap limits how many ranked candidates are kept per subtask.
	CandidateCap int `koanf:"candidate_cap"`

	// WeeklyCapacitySlots is the free-slot ceiling used to normalize
	// availability to [0,1].
	WeeklyCapacitySlots int `koanf:"weekly_capacity_slots"`

	// TaskStoreDSN selects the task store: "memory" or a SQLite DSN such as
	// "file:tasks.db".
	TaskStoreDSN string `koanf:"task_store_dsn"`

	// PersistQueueSize bounds the in-memory persistence job queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// PersistWorkerCount sets the number of persistence workers.
	PersistWorkerCount int `koanf:"persist_worker_count"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		DirectoryTTLSeconds: 300,
		ProviderModel:       "claude-sonnet-4-20250514",
		ProviderTimeoutMS:   30_000,
		ProviderMaxTokens:   4096,
		CandidateCap:        10,
		WeeklyCapacitySlots: 40,
		TaskStoreDSN:        "memory",
		PersistQueueSize:    4096,
		PersistWorkerCount:  runtime.NumCPU(),
	}
}
