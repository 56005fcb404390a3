package queue

import (
	"context"
	"encoding/json"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"

	"github.com/go-redis/redis/v8"
)

type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueIngestionJob(ctx context.Context, job model.IngestionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.IngestionQueue, data).Err()
}

// PublishFileUploaded signals watchers that a new record entered the
// pending state so an idle poll loop can wake immediately.
func (p *Producer) PublishFileUploaded(ctx context.Context, fileID int64) error {
	return p.client.Publish(ctx, p.cfg.Redis.WatchChannel, fileID).Err()
}
