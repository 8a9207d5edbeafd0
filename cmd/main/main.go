package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/auth"
	"github.com/UnknownOlympus/glimpse/internal/biography"
	"github.com/UnknownOlympus/glimpse/internal/bookmarks"
	"github.com/UnknownOlympus/glimpse/internal/client"
	"github.com/UnknownOlympus/glimpse/internal/config"
	"github.com/UnknownOlympus/glimpse/internal/directory"
	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/metrics"
	"github.com/UnknownOlympus/glimpse/internal/repository"
	"github.com/UnknownOlympus/glimpse/internal/server"
	"github.com/UnknownOlympus/glimpse/internal/services/employees"
	"github.com/UnknownOlympus/glimpse/internal/source"
	"github.com/UnknownOlympus/glimpse/internal/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 3

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	kv, closeKV := openStorage(ctx, cfg.Storage, appMetrics)
	defer closeKV()

	httpClient := client.CreateHTTPClient(logger, cfg.Source.Timeout)
	users := source.NewUserLister(httpClient, cfg.Source.BaseURL, cfg.Source.Limit, cfg.Source.Skip)
	gen := transform.NewRandGenerator()
	transformer := transform.NewTransformer(gen)
	store := directory.NewStore(logger, users, transformer, appMetrics)

	marks := bookmarks.NewSet(logger, kv, appMetrics)
	marks.Load(ctx)

	gate := auth.NewGate(logger, kv, cfg.Auth.Username, cfg.Auth.Password)

	var drafter biography.Drafter = biography.Disabled{}
	if cfg.GenAI.APIKey != "" {
		genaiDrafter, err := biography.NewGenAIDrafter(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Timeout)
		if err != nil {
			log.Fatalf("Failed to create biography drafter: %v", err)
		}
		drafter = genaiDrafter
	} else {
		logger.WarnContext(ctx, "GenAI API key is not configured, biography drafting is disabled")
	}

	staff := employees.NewStaff(logger, store, transformer, biography.NewGuarded(logger, drafter, appMetrics, cfg.GenAI.Timeout))
	api := server.NewAPI(logger, staff, marks, gate, gen)

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, kv, cfg.HTTP.MonitoringPort, cfg.Source.BaseURL)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting Employee Service")
		if err := staff.Start(ctx, cfg.Source.RefreshInterval); err != nil {
			logger.ErrorContext(ctx, "Employee Service failed", sl.Err(err))
		}
		logger.InfoContext(ctx, "Employee Service stopped.")
	}()

	go func() {
		defer wgr.Done()
		apiServer := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		if err := server.Serve(ctx, logger, apiServer); err != nil {
			logger.ErrorContext(ctx, "API server failed", sl.Err(err))
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// openStorage opens the key/value backend selected by the configuration.
func openStorage(ctx context.Context, cfg config.StorageConfig, appMetrics *metrics.Metrics) (repository.KVRepoIface, func()) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg := cfg.Postgres
		dtb, err := repository.NewDatabase(ctx, repository.PostgresURL(pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname))
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		return repository.NewKVRepository(dtb, appMetrics), dtb.Close
	case config.DriverSQLite:
		sqlite, err := repository.NewSQLiteKV(cfg.SQLitePath, appMetrics)
		if err != nil {
			log.Fatalf("Failed to open SQLite store: %v", err)
		}
		return sqlite, func() { _ = sqlite.Close() }
	default:
		return repository.NewMemoryKV(), func() {}
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
