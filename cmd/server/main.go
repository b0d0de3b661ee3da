package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/database"
	"github.com/omrtrack/attempt-tracker/internal/handler"
	"github.com/omrtrack/attempt-tracker/internal/logger"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/omrtrack/attempt-tracker/internal/router"
	"github.com/omrtrack/attempt-tracker/internal/service"
	"github.com/omrtrack/attempt-tracker/internal/validator"
	"github.com/omrtrack/attempt-tracker/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Attempt Tracker")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	profileRepo := repository.NewExamProfileRepository(pool)
	keyRepo := repository.NewAnswerKeyRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	examService := service.NewExamService(profileRepo, keyRepo, rdb, log)
	submissionService := service.NewSubmissionService(examService, attemptRepo, rdb, log)
	attemptService := service.NewAttemptService(attemptRepo, log)
	analyticsService := service.NewAnalyticsService(examService, attemptRepo)
	exportService := service.NewExportService(profileRepo, keyRepo, attemptRepo, log)

	handlers := &router.Handlers{
		Exam:      handler.NewExamHandler(examService),
		AnswerKey: handler.NewAnswerKeyHandler(examService),
		Attempt:   handler.NewAttemptHandler(submissionService, attemptService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Export:    handler.NewExportHandler(exportService),
		Feed:      handler.NewFeedHandler(rdb, examService, attemptService, log),
	}

	// Load every profile and answer key into Redis BEFORE accepting traffic,
	// so the first submissions grade without touching PostgreSQL.
	if err := examService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())

	backupWorker := worker.NewBackupWorker(exportService, rdb, cfg.BackupDir, cfg.BackupInterval, log)
	go backupWorker.Start(workerCtx)

	r := router.SetupRouter(handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
