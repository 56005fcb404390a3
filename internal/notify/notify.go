// Package notify delivers fire-and-forget user notifications for
// ingestion events.
package notify

import (
	"context"

	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"

	"github.com/rs/zerolog"
)

const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityInfo    = "info"
)

// Sink receives notifications. Delivery is best-effort; implementations
// log failures instead of returning them.
type Sink interface {
	Notify(ctx context.Context, n model.Notification)
}

// LogSink writes notifications to the service log. Used when no webhook
// is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.Component("notify")}
}

func (s *LogSink) Notify(ctx context.Context, n model.Notification) {
	s.log.Info().
		Str("severity", n.Severity).
		Str("title", n.Title).
		Str("description", n.Description).
		Msg("Notification")
}
