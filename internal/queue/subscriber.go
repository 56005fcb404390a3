package queue

import (
	"context"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"

	"github.com/rs/zerolog"
)

// Subscriber listens on the upload wake channel.
type Subscriber struct {
	client *RedisClient
	cfg    *config.Config
	log    zerolog.Logger
}

func NewSubscriber(redisClient *RedisClient, cfg *config.Config) *Subscriber {
	return &Subscriber{
		client: redisClient,
		cfg:    cfg,
		log:    logger.Component("queue"),
	}
}

// SubscribeUploads invokes wake for every upload event until the context
// is cancelled. Message payloads are ignored; the event only signals
// that the pending set may have grown.
func (s *Subscriber) SubscribeUploads(ctx context.Context, wake func()) error {
	sub := s.client.Client().Subscribe(ctx, s.cfg.Redis.WatchChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.log.Debug().Str("channel", msg.Channel).Msg("Upload event received")
			wake()
		}
	}
}
