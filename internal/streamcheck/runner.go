package streamcheck

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teamplan/alloc/pkg/logger"
)

const healthTimeout = 5 * time.Second

// Run opens the configured number of streams and verifies each one.
func Run(ctx context.Context, config *Config) error {
	log := logger.Named("streamcheck")
	stats := &Stats{StartTime: time.Now(), StreamsOpened: config.Runs}

	log.Info(ctx, "starting stream order check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("runs", config.Runs),
		logger.Int("workers", config.Workers),
	)

	if err := checkHealth(ctx, config.BaseURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	var verified, failed, received atomic.Int64
	runs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range runs {
				events, err := openStream(ctx, config)
				if err == nil {
					received.Add(int64(len(events)))
					err = VerifySequence(events)
				}
				if err != nil {
					failed.Add(1)
					log.Error(ctx, "stream failed verification",
						logger.Int("run", run),
						logger.Error(err),
					)
					continue
				}
				verified.Add(1)
				if config.Verbose {
					log.Info(ctx, "stream verified",
						logger.Int("run", run),
						logger.Int("events", len(events)),
					)
				}
			}
		}()
	}

	for i := 0; i < config.Runs; i++ {
		select {
		case runs <- i:
		case <-ctx.Done():
			close(runs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(runs)
	wg.Wait()

	stats.StreamsVerified = int(verified.Load())
	stats.StreamsFailed = int(failed.Load())
	stats.EventsReceived = int(received.Load())
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "stream order check finished",
		logger.Int("verified", stats.StreamsVerified),
		logger.Int("failed", stats.StreamsFailed),
		logger.Int("events", stats.EventsReceived),
		logger.Duration("duration", stats.Duration),
	)

	if stats.StreamsFailed > 0 {
		return fmt.Errorf("%d of %d streams violated the ordering contract", stats.StreamsFailed, config.Runs)
	}
	return nil
}

func checkHealth(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthz returned %d", resp.StatusCode)
	}
	return nil
}

// openStream runs one streaming allocation and returns the events received.
func openStream(ctx context.Context, config *Config) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{
		"task_description": config.TaskDescription,
		"task_type":        config.TaskType,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.BaseURL+"/allocate/stream", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stream returned %d", resp.StatusCode)
	}

	var events []Record
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		data, ok := strings.CutPrefix(sc.Text(), "data: ")
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("bad event payload: %w", err)
		}
		events = append(events, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
