package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamplan/alloc/internal/adapters/directory"
	"github.com/teamplan/alloc/internal/adapters/http/api"
	"github.com/teamplan/alloc/internal/adapters/http/swagger"
	"github.com/teamplan/alloc/internal/adapters/mq/queue"
	"github.com/teamplan/alloc/internal/adapters/mq/worker"
	"github.com/teamplan/alloc/internal/adapters/provider"
	"github.com/teamplan/alloc/internal/adapters/taskstore"
	app "github.com/teamplan/alloc/internal/app"
	"github.com/teamplan/alloc/internal/config"
	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/internal/domain/scoring"
	"github.com/teamplan/alloc/internal/domain/strategy"
	"github.com/teamplan/alloc/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Capability catalog: file roster when configured, built-in seed
	// otherwise, behind the TTL cache.
	source := directory.Seed()
	if cfg.RosterPath != "" {
		source = directory.FileSource(cfg.RosterPath)
	}
	roster := directory.New(source,
		directory.WithTTL(time.Duration(cfg.DirectoryTTLSeconds)*time.Second),
	)
	if err := roster.Refresh(ctx); err != nil {
		os.Stderr.WriteString("failed to load roster: " + err.Error() + "\n")
		return
	}

	engine := scoring.NewEngine(scoringOptions(cfg)...)
	template := strategy.NewTemplate(catalog.New())

	// Task store and the async persistence pipeline.
	store, err := openStore(ctx, cfg.TaskStoreDSN)
	if err != nil {
		os.Stderr.WriteString("failed to open task store: " + err.Error() + "\n")
		return
	}
	defer store.Close()

	jobs := queue.NewInMemory(queue.WithCapacity(cfg.PersistQueueSize))
	pool := worker.NewPool(jobs, store, cfg.PersistWorkerCount)
	pool.Start(ctx)

	opts := []app.Option{
		app.WithScoringEngine(engine),
		app.WithJobs(jobs),
		app.WithStore(store),
	}

	// Provider-backed strategies are optional: without credentials the
	// engine still serves template allocations.
	gen, err := provider.NewAnthropic(provider.AnthropicConfig{
		Model:      cfg.ProviderModel,
		MaxTokens:  cfg.ProviderMaxTokens,
		Timeout:    time.Duration(cfg.ProviderTimeoutMS) * time.Millisecond,
		UseBedrock: cfg.UseBedrock,
		AWSRegion:  cfg.AWSRegion,
		AWSProfile: cfg.AWSProfile,
	})
	if err != nil {
		log.Warn(ctx, "decomposition provider unavailable, running template-only",
			logger.Error(err))
	} else {
		opts = append(opts,
			app.WithHierarchical(strategy.NewHierarchical(gen)),
			app.WithSequential(strategy.NewSequential(gen)),
		)
	}

	svc := app.New(roster, template, opts...)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc, roster).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	// Drain the persistence pipeline before closing the store.
	_ = jobs.Close()
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "persistence shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// scoringOptions translates config overrides into engine options.
func scoringOptions(cfg *config.Config) []scoring.Option {
	opts := []scoring.Option{
		scoring.WithCandidateCap(cfg.CandidateCap),
		scoring.WithCapacitySlots(cfg.WeeklyCapacitySlots),
	}
	if len(cfg.ScoreWeights) > 0 {
		opts = append(opts, scoring.WithWeights(model.Weights{
			SkillMatch:      cfg.ScoreWeights["skill_match"],
			Experience:      cfg.ScoreWeights["experience"],
			Availability:    cfg.ScoreWeights["availability"],
			PastPerformance: cfg.ScoreWeights["past_performance"],
			ExpertiseDepth:  cfg.ScoreWeights["expertise_depth"],
		}))
	}
	return opts
}

// openStore selects the task store from the DSN: "memory" keeps tasks
// in-process, anything else is a SQLite path.
func openStore(ctx context.Context, dsn string) (taskstore.Store, error) {
	if dsn == "" || dsn == "memory" {
		return taskstore.NewMemory(), nil
	}
	return taskstore.NewSQLite(ctx, dsn)
}
