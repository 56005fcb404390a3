package watch

import (
	"context"
	"time"

	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/internal/notify"

	"github.com/rs/zerolog"
)

// Scheduler refetches the load file list on a fixed interval while any
// record is mid-ingestion. When every record is terminal it drops to a
// slow idle re-check so records that enter PENDING without a wake event
// (lost publish, direct DB insert) are still picked up; Kick short-cuts
// the wait.
type Scheduler struct {
	fetcher      Fetcher
	notifier     *CompletionNotifier
	sink         notify.Sink
	interval     time.Duration
	idleInterval time.Duration
	kick         chan struct{}
	log          zerolog.Logger
}

func NewScheduler(fetcher Fetcher, notifier *CompletionNotifier, sink notify.Sink, interval, idleInterval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	if idleInterval <= 0 {
		idleInterval = 60 * interval
	}
	return &Scheduler{
		fetcher:      fetcher,
		notifier:     notifier,
		sink:         sink,
		interval:     interval,
		idleInterval: idleInterval,
		kick:         make(chan struct{}, 1),
		log:          logger.Component("watch"),
	}
}

// Kick wakes an idle scheduler, typically after an upload was accepted.
// Safe to call from any goroutine; multiple kicks coalesce.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run observes once to seed the pending set, then loops until the
// context is cancelled. A failed fetch does not stop the loop; the next
// tick retries.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(s.interval)
	stopTimer(timer)
	defer timer.Stop()

	s.observe(ctx, timer)

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Watch scheduler stopping")
			return ctx.Err()
		case <-s.kick:
			stopTimer(timer)
			s.observe(ctx, timer)
		case <-timer.C:
			s.observe(ctx, timer)
		}
	}
}

// observe fetches the list, runs the completion diff and re-arms the
// timer: the fast cadence while non-terminal records remain, the idle
// cadence otherwise. Fetch failures surface as error notifications but
// never break the cadence.
func (s *Scheduler) observe(ctx context.Context, timer *time.Timer) {
	files, err := s.fetcher.FetchFiles(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error().Err(err).Msg("List refetch failed")
		s.sink.Notify(ctx, model.Notification{
			Severity:    notify.SeverityError,
			Title:       "Load file list refresh failed",
			Description: err.Error(),
		})
		s.arm(timer)
		return
	}

	s.notifier.Observe(ctx, files)
	s.arm(timer)
}

func (s *Scheduler) arm(timer *time.Timer) {
	if s.notifier.HasPending() {
		timer.Reset(s.interval)
	} else {
		timer.Reset(s.idleInterval)
	}
}

// stopTimer stops and drains so a following Reset starts clean.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
