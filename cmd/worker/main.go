package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"brevosync/internal/config"
	"brevosync/internal/database"
	"brevosync/internal/logger"
	"brevosync/internal/relay"
	"brevosync/internal/sync"
	"brevosync/internal/worker"
	"brevosync/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Initialize core services
	synchronizer := sync.NewSynchronizer(db.DB, cfg, logger)
	eventRelay := relay.New(db.DB, cfg, logger, synchronizer)
	processor := processors.NewEventProcessor(eventRelay, logger)

	// Initialize worker and scheduler
	w := worker.New(cfg, logger, processor)
	scheduler := worker.NewScheduler(cfg.SyncInterval, logger, synchronizer)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()
	go scheduler.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	scheduler.Stop()
	w.Stop()
}
