package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/db"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/notify"
	"github.com/xzeggaedu/fica-academic-sub002/internal/queue"
	"github.com/xzeggaedu/fica-academic-sub002/internal/watch"
	"github.com/xzeggaedu/fica-academic-sub002/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting watch worker")

	// Initialize Redis client for upload wake events
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Fetch over the API when a list URL is configured, otherwise read
	// the database directly.
	var fetcher watch.Fetcher
	if cfg.Workers.Watch.ListURL != "" {
		fetcher = watch.NewHTTPFetcher(cfg.Workers.Watch.ListURL)
	} else {
		database, err := db.NewConnection(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()
		fetcher = watch.NewRepositoryFetcher(db.NewRepository(database))
	}

	// Notifications go to the webhook when configured, else the log.
	var sink notify.Sink
	if cfg.Notification.WebhookURL != "" {
		sink = notify.NewWebhookSink(cfg)
	} else {
		sink = notify.NewLogSink()
	}

	watchWorker := worker.NewWatchWorker(cfg, fetcher, sink, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := watchWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Watch worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down watch worker...")

	cancel()
	watchWorker.Stop()

	log.Info().Msg("Watch worker exited")
}
