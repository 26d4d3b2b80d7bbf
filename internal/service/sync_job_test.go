package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/internal/mock"
	"github.com/walletmesh/labelsync/models"
)

func countingEngine(t *testing.T, counter *int32) *mock.MockSyncService {
	t.Helper()
	engine := mock.NewMockSyncService(gomock.NewController(t))
	engine.EXPECT().SyncAccount(gomock.Any(), uint32(1)).
		DoAndReturn(func(context.Context, uint32) (*models.LabelSet, *models.SyncReport, error) {
			atomic.AddInt32(counter, 1)
			return models.NewLabelSet(), &models.SyncReport{}, nil
		}).AnyTimes()
	return engine
}

func TestSyncJob_RunsImmediatelyThenOnTicker(t *testing.T) {
	var cycles int32
	job := NewSyncJob(countingEngine(t, &cycles), logger.Nop())

	job.Start(context.Background(), 1, 30*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cycles) >= 3
	}, 2*time.Second, 10*time.Millisecond, "expected the immediate cycle plus ticker cycles")
}

func TestSyncJob_StopHaltsCycles(t *testing.T) {
	var cycles int32
	job := NewSyncJob(countingEngine(t, &cycles), logger.Nop())

	job.Start(context.Background(), 1, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cycles) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	job.Stop()
	after := atomic.LoadInt32(&cycles)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&cycles), "no cycles after Stop")
}

func TestSyncJob_StopWithoutStartIsNoop(t *testing.T) {
	var cycles int32
	job := NewSyncJob(countingEngine(t, &cycles), logger.Nop())
	job.Stop()
	assert.Zero(t, atomic.LoadInt32(&cycles))
}

func TestSyncJob_StartReplacesPreviousSchedule(t *testing.T) {
	var cycles int32
	job := NewSyncJob(countingEngine(t, &cycles), logger.Nop())

	job.Start(context.Background(), 1, time.Hour)
	job.Start(context.Background(), 1, 20*time.Millisecond)
	defer job.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cycles) >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncJob_ParentContextCancellation(t *testing.T) {
	var cycles int32
	job := NewSyncJob(countingEngine(t, &cycles), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 1, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cycles) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	after := atomic.LoadInt32(&cycles)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&cycles))
}

func TestSyncJob_OverlappingCycleIsSkippedQuietly(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mock.NewMockSyncService(ctrl)
	engine.EXPECT().SyncAccount(gomock.Any(), uint32(1)).
		Return(nil, nil, ErrSyncInProgress).AnyTimes()

	job := NewSyncJob(engine, logger.Nop())
	job.Start(context.Background(), 1, 20*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	job.Stop()
	// The busy error is swallowed by the job; reaching here without a
	// panic or error log assertion is the behaviour under test.
}
