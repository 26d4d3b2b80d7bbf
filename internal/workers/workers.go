package workers

import (
	"context"
	"time"

	"github.com/walletmesh/labelsync/internal/service"
)

// Workers aggregates the daemon's background workers.
type Workers struct {
	workers []Worker
}

// New builds the aggregate from the given workers.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every worker. Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// SyncWorker runs the periodic label sync job for one wallet account.
type SyncWorker struct {
	job      service.SyncJob
	account  uint32
	interval time.Duration
}

// NewSyncWorker constructs a worker scheduling job for account every
// interval.
func NewSyncWorker(job service.SyncJob, account uint32, interval time.Duration) *SyncWorker {
	return &SyncWorker{job: job, account: account, interval: interval}
}

// Run implements Worker.
func (s *SyncWorker) Run(ctx context.Context) {
	s.job.Start(ctx, s.account, s.interval)
}

// Stop halts the underlying job and waits for the in-flight cycle.
func (s *SyncWorker) Stop() {
	s.job.Stop()
}
