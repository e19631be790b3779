// Package streamcheck fires streaming allocation requests at a running
// service and verifies every stream honors the causal-order contract.
package streamcheck

import "time"

// Config holds configuration for one verification run.
type Config struct {
	BaseURL         string        // Base URL of the service
	Runs            int           // Number of streams to open
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // Per-stream timeout
	TaskDescription string        // Task submitted on every stream
	TaskType        string        // Optional task type
	Verbose         bool          // Log every event
}

// Record is one received stream event, reduced to what ordering checks need.
type Record struct {
	Type string `json:"event"`
	Team string `json:"team,omitempty"`
}

// Stats aggregates the outcome across all streams.
type Stats struct {
	StreamsOpened   int
	StreamsVerified int
	StreamsFailed   int
	EventsReceived  int
	StartTime       time.Time
	Duration        time.Duration
}
