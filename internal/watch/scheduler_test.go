package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	files []model.AcademicLoadFile
	err   error
	calls int64
}

func (f *fakeFetcher) FetchFiles(ctx context.Context) ([]model.AcademicLoadFile, error) {
	atomic.AddInt64(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.AcademicLoadFile, len(f.files))
	copy(out, f.files)
	return out, nil
}

func (f *fakeFetcher) set(files []model.AcademicLoadFile, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
	f.err = err
}

func (f *fakeFetcher) count() int64 {
	return atomic.LoadInt64(&f.calls)
}

type nullSink struct{}

func (nullSink) Notify(ctx context.Context, n model.Notification) {}

func TestSchedulerPollsWhileRecordsArePending(t *testing.T) {
	fetcher := &fakeFetcher{files: []model.AcademicLoadFile{
		fileWithStatus(1, model.StatusProcessing),
	}}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), nullSink{}, 20*time.Millisecond, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_ = s.Run(ctx)

	// Initial observation plus several interval ticks.
	assert.GreaterOrEqual(t, fetcher.count(), int64(3))
}

func TestSchedulerIdlesAtSlowCadenceWhenAllRecordsTerminal(t *testing.T) {
	fetcher := &fakeFetcher{files: []model.AcademicLoadFile{
		fileWithStatus(1, model.StatusCompleted),
		fileWithStatus(2, model.StatusFailed),
	}}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), nullSink{}, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_ = s.Run(ctx)

	// Only the seeding observation; the fast timer was never armed.
	assert.Equal(t, int64(1), fetcher.count())
}

func TestSchedulerWakesOnKickAndResumesPolling(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), nullSink{}, 15*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// Let the seeding observation happen, then confirm idleness.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), fetcher.count())

	// A new pending record appears and the scheduler is kicked awake.
	fetcher.set([]model.AcademicLoadFile{fileWithStatus(5, model.StatusPending)}, nil)
	s.Kick()

	time.Sleep(100 * time.Millisecond)
	assert.GreaterOrEqual(t, fetcher.count(), int64(3))

	cancel()
	<-done
}

func TestSchedulerIdleRecheckFindsPendingWithoutKick(t *testing.T) {
	// A record can enter PENDING without a wake event (lost publish,
	// direct DB insert); the idle re-check must still observe it.
	fetcher := &fakeFetcher{}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), nullSink{}, 10*time.Millisecond, 40*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int64(1), fetcher.count())

	fetcher.set([]model.AcademicLoadFile{fileWithStatus(5, model.StatusPending)}, nil)

	// No Kick. Within a few idle periods the record is observed and the
	// fast cadence takes over.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, fetcher.count(), int64(4))

	cancel()
	<-done
}

func TestSchedulerStopsPollingOnceIngestionFinishes(t *testing.T) {
	fetcher := &fakeFetcher{files: []model.AcademicLoadFile{
		fileWithStatus(9, model.StatusProcessing),
	}}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), nullSink{}, 15*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	fetcher.set([]model.AcademicLoadFile{fileWithStatus(9, model.StatusCompleted)}, nil)

	// Allow the terminal observation to land, then the loop must go quiet.
	time.Sleep(60 * time.Millisecond)
	settled := fetcher.count()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, settled, fetcher.count())

	cancel()
	<-done
}

func TestSchedulerNotifiesOnFetchFailureAndKeepsPolling(t *testing.T) {
	fetcher := &fakeFetcher{files: []model.AcademicLoadFile{
		fileWithStatus(1, model.StatusProcessing),
	}}
	sink := &recordingSink{}
	s := NewScheduler(fetcher, NewCompletionNotifier(nullSink{}), sink, 15*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// Seed with a pending record, then start failing fetches.
	time.Sleep(30 * time.Millisecond)
	fetcher.set(nil, fmt.Errorf("connection refused"))
	time.Sleep(80 * time.Millisecond)

	cancel()
	<-done

	// Each failed tick surfaced an error notification and the cadence
	// survived the failures.
	assert.GreaterOrEqual(t, fetcher.count(), int64(3))
	require.NotEmpty(t, sink.notifications)
	for _, n := range sink.notifications {
		assert.Equal(t, notify.SeverityError, n.Severity)
		assert.Contains(t, n.Description, "connection refused")
	}
}
