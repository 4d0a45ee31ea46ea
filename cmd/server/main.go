// Package main is the entry point of the classroom engine HTTP server.
//
// The server wires the evaluation engine to its backing stores. With a
// DATABASE_URL the engine persists to PostgreSQL and optionally caches
// rubrics in Redis; without one it runs fully in memory, which is the
// single-instructor desktop deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/directaula/classroom-engine/config"
	"github.com/directaula/classroom-engine/internal/application"
	"github.com/directaula/classroom-engine/internal/domain/evaluation"
	"github.com/directaula/classroom-engine/internal/infrastructure/messaging"
	"github.com/directaula/classroom-engine/internal/infrastructure/persistence/memory"
	"github.com/directaula/classroom-engine/internal/infrastructure/persistence/postgres"
	"github.com/directaula/classroom-engine/internal/infrastructure/persistence/redis"
	httpserver "github.com/directaula/classroom-engine/internal/interface/http"
	"github.com/directaula/classroom-engine/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.AddCaller,
	})
	log.Info("starting classroom engine",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	var (
		repos    application.Repositories
		dbHealth httpserver.HealthChecker
	)

	var dbConn *postgres.Connection
	if cfg.Database.URL != "" {
		log.Info("connecting to database")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbConn.Close()

		log.Info("checking database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")

		repos = application.Repositories{
			Groups:     postgres.NewGroupRepository(dbConn),
			Rubrics:    postgres.NewRubricRepository(dbConn),
			Roster:     postgres.NewRosterRepository(dbConn),
			Grades:     postgres.NewGradeRepository(dbConn),
			Attendance: postgres.NewAttendanceRepository(dbConn),
		}
		dbHealth = dbConn
	} else {
		log.Info("no DATABASE_URL set, using in-memory storage")
		store := memory.NewStore()
		repos = application.Repositories{
			Groups:     store.Groups,
			Rubrics:    store.Rubrics,
			Roster:     store.Roster,
			Grades:     store.Grades,
			Attendance: store.Attendance,
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.AsyncMode = cfg.Engine.EventBusAsync
	busConfig.WorkerPoolSize = cfg.Engine.EventBusWorkers
	busConfig.Log = log
	bus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus")
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. RUBRIC CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var cacheHealth httpserver.HealthChecker

	if !cfg.Redis.Disabled && dbConn != nil {
		log.Info("connecting to Redis")
		cache, err := redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("failed to connect to Redis, rubric caching disabled", logger.Err(err))
		} else {
			defer cache.Close()

			cached := redis.NewCachedRubricRepository(repos.Rubrics, cache, log)
			if err := cached.SubscribeInvalidation(bus); err != nil {
				return fmt.Errorf("failed to subscribe cache invalidation: %w", err)
			}
			repos.Rubrics = cached
			cacheHealth = cache
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ENGINE
	// ─────────────────────────────────────────────────────────────────────────
	engine := application.NewEngine(repos, application.Options{
		Bus: bus,
		Thresholds: evaluation.RiskThresholds{
			Academic:   cfg.Engine.AcademicRiskThreshold,
			Attendance: cfg.Engine.AttendanceRiskThreshold,
		},
		Log: log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		EnableCORS:     cfg.Server.EnableCORS,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, httpserver.Dependencies{
		Engine:   engine,
		Logger:   log,
		Database: dbHealth,
		Cache:    cacheHealth,
		Events:   bus.Metrics(),
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("classroom engine stopped")
	return nil
}
