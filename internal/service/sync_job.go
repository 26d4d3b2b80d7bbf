package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/walletmesh/labelsync/internal/logger"
)

type syncJob struct {
	engine SyncService
	log    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that runs engine.SyncAccount on a ticker.
// The job is idle until Start is called.
func NewSyncJob(engine SyncService, log *logger.Logger) SyncJob {
	return &syncJob{engine: engine, log: log}
}

// Start implements SyncJob. It stops any previously running schedule, runs
// one cycle immediately, then runs a cycle every interval. If interval is
// zero or negative it defaults to 5 minutes. The goroutine exits when ctx
// is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, accountIndex uint32, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.runOnce(jobCtx, accountIndex)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runOnce(jobCtx, accountIndex)
			}
		}
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the
// job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) runOnce(ctx context.Context, accountIndex uint32) {
	_, _, err := j.engine.SyncAccount(ctx, accountIndex)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, ErrSyncInProgress):
		j.log.Debug().Uint32("account", accountIndex).Msg("previous cycle still running, skipping tick")
	default:
		j.log.Error().Uint32("account", accountIndex).Err(err).Msg("scheduled sync cycle failed")
	}
}
