package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/api"
	"github.com/ndewijer/portfolio-performance/internal/config"
	"github.com/ndewijer/portfolio-performance/internal/database"
	"github.com/ndewijer/portfolio-performance/internal/logging"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/ndewijer/portfolio-performance/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create logger")
	}
	log.Logger = logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("INTERNAL_API_KEY is not set, write endpoints will respond with 500")
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	materializedRepo := repository.NewMaterializedRepository(db)

	// Create services
	dataLoader := service.NewDataLoaderService(
		portfolioRepo,
		cashFlowRepo,
		valuationRepo,
	)
	materializedService := service.NewMaterializedService(
		materializedRepo,
		portfolioRepo,
		dataLoader,
		cfg.Snapshot.Workers,
		logger,
	)
	services := api.Services{
		System:    service.NewSystemService(db, map[string]bool{"materialized_performance": true}),
		Portfolio: service.NewPortfolioService(portfolioRepo, logger),
		CashFlow: service.NewCashFlowService(
			cashFlowRepo,
			portfolioRepo,
			materializedService,
			logger,
		),
		Valuation: service.NewValuationService(
			valuationRepo,
			portfolioRepo,
			materializedService,
			logger,
		),
		Performance:  service.NewPerformanceService(dataLoader, materializedRepo, logger),
		Materialized: materializedService,
	}

	scheduler := startScheduler(cfg.Snapshot.Schedule, materializedService, logger)

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}

// startScheduler starts the snapshot scheduler unless the schedule is empty.
func startScheduler(schedule string, refresher service.BulkRefresher, logger zerolog.Logger) *service.SnapshotScheduler {
	if schedule == "" {
		logger.Info().Msg("snapshot scheduler disabled")
		return nil
	}

	scheduler, err := service.NewSnapshotScheduler(schedule, refresher, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create snapshot scheduler")
	}
	scheduler.Start()
	return scheduler
}
