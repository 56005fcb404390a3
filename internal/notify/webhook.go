package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"

	"github.com/rs/zerolog"
)

// WebhookSink posts notifications as JSON to a configured endpoint.
type WebhookSink struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewWebhookSink(cfg *config.Config) *WebhookSink {
	return &WebhookSink{
		url: cfg.Notification.WebhookURL,
		httpClient: &http.Client{
			Timeout: cfg.Notification.Timeout,
		},
		log: logger.Component("notify"),
	}
}

func (s *WebhookSink) Notify(ctx context.Context, n model.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal notification")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(data))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create notification request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Error().Err(err).Str("url", s.url).Msg("Failed to deliver notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Error().Int("status", resp.StatusCode).Str("url", s.url).Msg("Notification endpoint rejected delivery")
		return
	}

	s.log.Debug().Str("title", n.Title).Msg("Notification delivered")
}
