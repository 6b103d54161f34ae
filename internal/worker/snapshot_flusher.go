package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SnapshotFacade exposes the subset of application functionality required by the worker.
type SnapshotFacade interface {
	PendingSnapshot() bool
	FlushSnapshot(ctx context.Context) error
}

// SnapshotFlusher periodically retries saving a snapshot whose earlier save failed.
type SnapshotFlusher struct {
	facade   SnapshotFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSnapshotFlusher constructs the flusher. A non-positive interval falls back to one second.
func NewSnapshotFlusher(facade SnapshotFacade, interval time.Duration, logger *slog.Logger) *SnapshotFlusher {
	if interval <= 0 {
		interval = time.Second
	}
	return &SnapshotFlusher{
		facade:   facade,
		interval: interval,
		logger:   logger,
	}
}

// Start launches background flushing. Calling Start twice without Stop is a no-op.
func (f *SnapshotFlusher) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.wg.Add(1)
	go f.dispatch(runCtx)
}

// Stop waits for the background loop to finish.
func (f *SnapshotFlusher) Stop() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *SnapshotFlusher) dispatch(ctx context.Context) {
	defer f.wg.Done()
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.flush(ctx)
		}
	}
}

func (f *SnapshotFlusher) flush(ctx context.Context) {
	if !f.facade.PendingSnapshot() {
		return
	}
	if err := f.facade.FlushSnapshot(ctx); err != nil {
		f.logger.Warn("flush pending snapshot failed", slog.String("error", err.Error()))
		return
	}
	f.logger.Info("pending snapshot flushed")
}
