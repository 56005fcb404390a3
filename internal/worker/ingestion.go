package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/db"
	"github.com/xzeggaedu/fica-academic-sub002/internal/excel"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/internal/queue"
	"github.com/xzeggaedu/fica-academic-sub002/internal/storage"

	"github.com/rs/zerolog"
)

type IngestionWorker struct {
	cfg        *config.Config
	repo       db.Repository
	storage    storage.Storage
	parser     excel.ParsingStrategy
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewIngestionWorker(
	cfg *config.Config,
	repo db.Repository,
	store storage.Storage,
	redisClient *queue.RedisClient,
) *IngestionWorker {
	return &IngestionWorker{
		cfg:        cfg,
		repo:       repo,
		storage:    store,
		parser:     excel.NewExcelStrategy(),
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Ingestion.Count),
		log:        logger.Component("ingestion"),
	}
}

func (w *IngestionWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting ingestion worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeIngestionQueue(ctx, w.handleMessage)
}

func (w *IngestionWorker) Stop() {
	w.log.Info().Msg("Stopping ingestion worker")
	w.workerPool.Stop()
}

func (w *IngestionWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.IngestionJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal ingestion job")
		return err
	}

	w.log.Info().Int64("file_id", job.FileID).Str("s3_path", job.S3Path).Msg("Processing ingestion job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.processFile(ctx, job)
	})

	return nil
}

func (w *IngestionWorker) processFile(ctx context.Context, job model.IngestionJob) error {
	log := w.log.With().Int64("file_id", job.FileID).Logger()

	// Mark the record mid-ingestion before any slow work so pollers see
	// the PROCESSING state.
	if err := w.repo.UpdateFileStatus(ctx, job.FileID, model.StatusProcessing, nil); err != nil {
		log.Error().Err(err).Msg("Failed to mark file as processing")
		return err
	}

	exists, err := w.storage.Exists(ctx, job.S3Path)
	if err != nil {
		return w.fail(ctx, job.FileID, "Failed to check stored object", err)
	}
	if !exists {
		return w.fail(ctx, job.FileID, "Stored object missing",
			fmt.Errorf("object %s not found in storage", job.S3Path))
	}

	log.Debug().Msg("Downloading file from storage")
	reader, err := w.storage.Download(ctx, job.S3Path)
	if err != nil {
		return w.fail(ctx, job.FileID, "Failed to download file", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return w.fail(ctx, job.FileID, "Failed to read file data", err)
	}

	log.Debug().Msg("Parsing Excel file")
	loads, err := w.parser.Parse(ctx, data)
	if err != nil {
		return w.fail(ctx, job.FileID, "Failed to parse Excel file", err)
	}

	log.Debug().Int("row_count", len(loads)).Msg("Validating parsed rows")
	if err := w.parser.Validate(ctx, loads); err != nil {
		return w.fail(ctx, job.FileID, "Row validation failed", err)
	}

	log.Debug().Msg("Inserting load entries")
	if err := w.repo.InsertEntries(ctx, job.FileID, loads); err != nil {
		return w.fail(ctx, job.FileID, "Failed to insert load entries", err)
	}

	if err := w.repo.UpdateFileStatus(ctx, job.FileID, model.StatusCompleted, nil); err != nil {
		log.Error().Err(err).Msg("Failed to update file status")
		return err
	}

	log.Info().Int("row_count", len(loads)).Msg("File processed successfully")
	return nil
}

// fail ends the record in FAILED with the error recorded in notes.
func (w *IngestionWorker) fail(ctx context.Context, fileID int64, msg string, err error) error {
	w.log.Error().Err(err).Int64("file_id", fileID).Msg(msg)
	errorMsg := err.Error()
	if updateErr := w.repo.UpdateFileStatus(ctx, fileID, model.StatusFailed, &errorMsg); updateErr != nil {
		w.log.Error().Err(updateErr).Int64("file_id", fileID).Msg("Failed to mark file as failed")
	}
	return err
}
