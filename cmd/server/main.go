// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/spatial/docs" // Import generated swagger docs
	"github.com/tomtom215/spatial/internal/api"
	"github.com/tomtom215/spatial/internal/cache"
	"github.com/tomtom215/spatial/internal/config"
	"github.com/tomtom215/spatial/internal/database"
	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/spatial"
	"github.com/tomtom215/spatial/internal/supervisor"
	"github.com/tomtom215/spatial/internal/supervisor/services"
	"github.com/tomtom215/spatial/internal/temporal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Dur("repair_interval", cfg.Temporal.RepairInterval).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	if version, err := db.GetCurrentSchemaVersion(context.Background()); err == nil {
		logging.Info().Int("schema_version", version).Msg("Database initialized successfully")
	} else {
		logging.Warn().Err(err).Msg("Database initialized, schema version unknown")
	}

	backend, err := cache.NewBackend(cache.BackendConfig{
		Type:       cfg.Cache.Backend,
		TTL:        cfg.Cache.TTL,
		Capacity:   cfg.Cache.Capacity,
		BadgerPath: cfg.Cache.BadgerPath,
	})
	if err != nil {
		// Fatal skips deferred calls.
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize version cache")
	}
	versionCache := cache.NewVersionCache(backend, cfg.Cache.TTL)
	defer func() {
		if err := versionCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing version cache")
		}
	}()

	stores := spatial.NewStores(db, versionCache,
		temporal.WithMaxRepairAttempts(cfg.Temporal.MaxRepairAttempts),
		temporal.WithDefaultActor(cfg.Temporal.DefaultActor),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	router := api.NewRouter(api.NewHandler(stores, db), cfg.Server)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.Temporal.RepairInterval > 0 {
		tree.AddMaintenanceService(services.NewRepairSweeperService(stores, cfg.Temporal.RepairInterval, cfg.Temporal.RepairRate))
		logging.Info().
			Dur("interval", cfg.Temporal.RepairInterval).
			Float64("rate", cfg.Temporal.RepairRate).
			Msg("Repair sweeper added to supervisor tree")
	} else {
		logging.Info().Msg("Repair sweeper disabled (temporal.repair_interval=0)")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Server stopped gracefully")
}
