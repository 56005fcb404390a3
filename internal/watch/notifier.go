package watch

import (
	"context"
	"fmt"

	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/internal/notify"

	"github.com/rs/zerolog"
)

// PendingIDs returns the ids of records still mid-ingestion.
func PendingIDs(files []model.AcademicLoadFile) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, f := range files {
		if !f.Status.Terminal() {
			ids[f.ID] = struct{}{}
		}
	}
	return ids
}

// Step is one observation of the completion diff: given the previously
// pending id set and the current records, it returns the records that
// just completed and the next pending set. Records that transitioned to
// FAILED are never returned; failures surface inline, not as
// notifications.
func Step(prevPending map[int64]struct{}, files []model.AcademicLoadFile) ([]model.AcademicLoadFile, map[int64]struct{}) {
	var completed []model.AcademicLoadFile
	for _, f := range files {
		if _, wasPending := prevPending[f.ID]; wasPending && f.Status == model.StatusCompleted {
			completed = append(completed, f)
		}
	}
	return completed, PendingIDs(files)
}

// CompletionNotifier threads the pending set through successive
// observations and emits one notification per completion transition.
type CompletionNotifier struct {
	sink    notify.Sink
	pending map[int64]struct{}
	log     zerolog.Logger
}

func NewCompletionNotifier(sink notify.Sink) *CompletionNotifier {
	return &CompletionNotifier{
		sink:    sink,
		pending: make(map[int64]struct{}),
		log:     logger.Component("watch"),
	}
}

func (n *CompletionNotifier) Observe(ctx context.Context, files []model.AcademicLoadFile) {
	completed, next := Step(n.pending, files)
	n.pending = next

	for _, f := range completed {
		n.log.Info().Int64("file_id", f.ID).Str("filename", f.OriginalFilename).Msg("Load file ingestion completed")
		n.sink.Notify(ctx, model.Notification{
			Severity:    notify.SeveritySuccess,
			Title:       "Academic load processed",
			Description: fmt.Sprintf("File %s was processed successfully", f.OriginalFilename),
		})
	}
}

// HasPending reports whether the last observation contained records
// still mid-ingestion.
func (n *CompletionNotifier) HasPending() bool {
	return len(n.pending) > 0
}
