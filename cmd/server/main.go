package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/lingodeck/internal/api"
	"github.com/vytor/lingodeck/internal/config"
	"github.com/vytor/lingodeck/internal/db"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/jobs"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/repository/sqlite"
	"github.com/vytor/lingodeck/internal/services"
	"github.com/vytor/lingodeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("LingoDeck Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("policy_presets_path=%s", cfg.PolicyPresetsPath)
	log.Debug("default_preset=%s", cfg.DefaultPreset)
	log.Debug("maintenance_at=%s", cfg.MaintenanceAt)
	log.Debug("job_worker_count=%d", cfg.JobWorkerCount)
	log.Debug("job_queue_size=%d", cfg.JobQueueSize)
	log.Debug("review_log_retention_days=%d", cfg.ReviewLogRetentionDays)

	presets, err := config.LoadPresets(cfg.PolicyPresetsPath)
	if err != nil {
		log.WithError(err).Error("failed to load policy presets")
		os.Exit(1)
	}
	if _, ok := presets.Get(cfg.DefaultPreset); !ok {
		log.Error("default preset %q is not defined (have %v)", cfg.DefaultPreset, presets.Names())
		os.Exit(1)
	}
	log.Info("loaded %d policy presets", len(presets))

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Error("failed to open database")
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	reviewLogRepo := sqlite.NewReviewLogRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Shared by the study service and the daily rollover.
	bury := flashcard.NewBuryTracker()

	srv := &api.Server{
		DeckService:  services.NewDeckService(deckRepo, presets, cfg.DefaultPreset),
		NoteService:  services.NewNoteService(deckRepo, cardRepo),
		StudyService: services.NewStudyService(deckRepo, cardRepo, reviewLogRepo, bury),
		StatsService: services.NewStatsService(deckRepo, statsRepo),
		PresetNames:  presets.Names(),
		Ready:        database.Ready,
		Now:          time.Now,
	}

	// Initialize the maintenance worker pool and its daily trigger
	jobPool := worker.NewPool(cfg.JobWorkerCount, cfg.JobQueueSize)
	jobQueue := jobs.NewWorkerQueue(jobPool, bury, reviewLogRepo, cfg.ReviewLogRetentionDays, time.Now)
	scheduler := jobs.NewScheduler(jobQueue, cfg.MaintenanceAt, time.Local)

	ctx, cancel := context.WithCancel(context.Background())
	jobPool.Start(ctx)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Error("failed to start scheduler")
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	scheduler.Stop()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	// Drain queued maintenance before cancelling the worker context
	log.Debug("stopping job pool")
	jobPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("LingoDeck Server Stopped")
	log.Info("===========================================")
}
