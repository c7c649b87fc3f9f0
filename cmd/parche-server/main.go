// cmd/parche-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"parche-recommender/internal/catalog"
	"parche-recommender/internal/common/camunda"
	"parche-recommender/internal/common/config"
	"parche-recommender/internal/common/database"
	"parche-recommender/internal/common/genai"
	"parche-recommender/internal/common/logger"
	"parche-recommender/internal/common/observability"
	"parche-recommender/internal/models"
	"parche-recommender/internal/recommendation"
	"parche-recommender/internal/server"
	"parche-recommender/pkg/seed"

	ci "parche-recommender/internal/workers/ai-conversation/classify-intent"
	rp "parche-recommender/internal/workers/ai-conversation/recommend-plans"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting parche recommender...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Observability, cfg.App.Version)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}

	obs, err := observability.New(cfg.Observability.ServiceName)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	var checks []server.Check
	var closers []func() error

	snap, extraChecks, extraClosers, err := buildCatalog(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("catalog setup failed", zap.Error(err))
	}
	checks = append(checks, extraChecks...)
	closers = append(closers, extraClosers...)

	engineOpts := []recommendation.Option{recommendation.WithLogger(log)}
	if cfg.GenAI.Enabled {
		completer, err := genai.NewClient(cfg.GenAI)
		if err != nil {
			zapLog.Fatal("genai client setup failed", zap.Error(err))
		}
		engineOpts = append(engineOpts,
			recommendation.WithCompleter(completer),
			recommendation.WithRemoteTimeout(config.GetDuration(cfg.GenAI.Timeout)),
		)
		zapLog.Info("Remote completion enabled", zap.String("endpoint", completer.Endpoint()))
	} else {
		zapLog.Info("Remote completion disabled, serving local recommendations only")
	}
	engine := recommendation.NewEngine(engineOpts...)

	var workers []*camunda.Worker
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		checks = append(checks, server.Check{Name: "zeebe", Probe: zeebe.HealthCheck})

		if wcfg := config.GetWorkerConfig(cfg, rp.TaskType); wcfg.Enabled {
			handler := rp.NewHandler(
				&rp.Config{Timeout: config.GetDuration(wcfg.Timeout)},
				engine, snap, obs, &recommendPlansLoggerAdapter{log},
			)
			workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), rp.TaskType, camunda.Options(wcfg, cfg.Camunda), handler.Handle, log))
		}

		if wcfg := config.GetWorkerConfig(cfg, ci.TaskType); wcfg.Enabled {
			handler := ci.NewHandler(
				&ci.Config{Timeout: config.GetDuration(wcfg.Timeout)},
				&classifyIntentLoggerAdapter{log},
			)
			workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), ci.TaskType, camunda.Options(wcfg, cfg.Camunda), handler.Handle, log))
		}
	}

	srv := server.New(cfg.Server, server.Dependencies{
		Engine:  engine,
		Catalog: snap,
		Logger:  log,
		Checks:  checks,
	})

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address()))
		if err := srv.Run(); err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			zapLog.Error("Error closing client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping meter provider", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zapLog.Error("Error stopping tracer provider", zap.Error(err))
	}

	zapLog.Info("Parche recommender stopped gracefully")
}

// buildCatalog opens the configured plan source and, when enabled, puts the
// Redis snapshot cache in front of it.
func buildCatalog(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (catalog.Snapshotter, []server.Check, []func() error, error) {
	var (
		snap    catalog.Snapshotter
		checks  []server.Check
		closers []func() error
	)

	switch models.CatalogSource(cfg.Catalog.Source) {
	case models.CatalogSourceMemory, models.CatalogSourceFile:
		var plans []models.PlanRecord
		if _, statErr := os.Stat(cfg.Catalog.FilePath); statErr == nil || cfg.Catalog.Source == string(models.CatalogSourceFile) {
			loaded, err := seed.LoadPlans(cfg.Catalog.FilePath)
			if err != nil {
				return nil, nil, nil, err
			}
			plans = loaded
		}
		repo, err := catalog.NewMemoryRepository(plans)
		if err != nil {
			return nil, nil, nil, err
		}
		zapLog.Info("In-memory catalog ready",
			zap.String("path", cfg.Catalog.FilePath),
			zap.Int("plans", len(plans)),
		)
		snap = repo

	case models.CatalogSourcePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")

		repo := catalog.NewPostgresRepository(pg.DB, cfg.Catalog.MaxPlans)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, nil, nil, err
		}
		snap = repo
		checks = append(checks, server.Check{Name: "postgres", Probe: pg.Ping})
		closers = append(closers, pg.Close)

	case models.CatalogSourceElasticsearch:
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, nil, nil, err
		}
		zapLog.Info("Elasticsearch connected successfully")

		snap = catalog.NewElasticsearchSource(es.Client, cfg.Catalog.Index, cfg.Catalog.MaxPlans)
		checks = append(checks, server.Check{Name: "elasticsearch", Probe: es.Ping})

	default:
		return nil, nil, nil, fmt.Errorf("unsupported catalog source %q", cfg.Catalog.Source)
	}

	if cfg.Catalog.CacheEnabled {
		var rdb *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, nil, nil, err
		}
		zapLog.Info("Redis connected successfully, catalog snapshots are cached")

		snap = catalog.NewCachedSnapshotter(snap, rdb.Client, config.GetDuration(cfg.Catalog.CacheTTL),
			catalog.WithCacheLogger(log),
		)
		checks = append(checks, server.Check{Name: "redis", Probe: rdb.Ping})
		closers = append(closers, rdb.Close)
	}

	return snap, checks, closers, nil
}

type recommendPlansLoggerAdapter struct {
	logger.Logger
}

func (a *recommendPlansLoggerAdapter) With(fields map[string]interface{}) rp.Logger {
	return &recommendPlansLoggerAdapter{a.Logger.With(fields)}
}

type classifyIntentLoggerAdapter struct {
	logger.Logger
}

func (a *classifyIntentLoggerAdapter) With(fields map[string]interface{}) ci.Logger {
	return &classifyIntentLoggerAdapter{a.Logger.With(fields)}
}
