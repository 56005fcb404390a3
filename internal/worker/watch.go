package worker

import (
	"context"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/notify"
	"github.com/xzeggaedu/fica-academic-sub002/internal/queue"
	"github.com/xzeggaedu/fica-academic-sub002/internal/watch"

	"github.com/rs/zerolog"
)

// WatchWorker runs the poll/diff loop and wires the Redis upload events
// into the scheduler's wake signal.
type WatchWorker struct {
	cfg        *config.Config
	scheduler  *watch.Scheduler
	subscriber *queue.Subscriber
	log        zerolog.Logger
}

func NewWatchWorker(
	cfg *config.Config,
	fetcher watch.Fetcher,
	sink notify.Sink,
	redisClient *queue.RedisClient,
) *WatchWorker {
	notifier := watch.NewCompletionNotifier(sink)
	return &WatchWorker{
		cfg:        cfg,
		scheduler:  watch.NewScheduler(fetcher, notifier, sink, cfg.Workers.Watch.Interval, cfg.Workers.Watch.IdleInterval),
		subscriber: queue.NewSubscriber(redisClient, cfg),
		log:        logger.Component("watch-worker"),
	}
}

func (w *WatchWorker) Start(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.Workers.Watch.Interval).Msg("Starting watch worker")

	go func() {
		if err := w.subscriber.SubscribeUploads(ctx, w.scheduler.Kick); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Upload subscription ended")
		}
	}()

	if w.cfg.Workers.Watch.RunOnStart {
		w.scheduler.Kick()
	}

	return w.scheduler.Run(ctx)
}

func (w *WatchWorker) Stop() {
	w.log.Info().Msg("Stopping watch worker")
}
