package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/teamplan/alloc/internal/streamcheck"
	"github.com/teamplan/alloc/pkg/logger"
)

// Default configuration constants.
const (
	defaultRuns        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 60 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		runs     = flag.Int("runs", defaultRuns, "Number of streams to open and verify")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "Per-stream timeout")
		task     = flag.String("task", "Build OAuth login", "Task description submitted on every stream")
		taskType = flag.String("type", "feature_release", "Task type submitted on every stream")
		verbose  = flag.Bool("verbose", false, "Log every verified stream")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &streamcheck.Config{
		BaseURL:         *baseURL,
		Runs:            *runs,
		Workers:         *workers,
		Timeout:         *timeout,
		TaskDescription: *task,
		TaskType:        *taskType,
		Verbose:         *verbose,
	}

	if err := streamcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Stream check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
