package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/walletmesh/labelsync/models"
)

// SyncService runs complete merge cycles against the remote store.
type SyncService interface {
	// SyncAccount runs one cycle for the account: download, decrypt,
	// merge, encrypt, upload, persist. It returns the merged set and a
	// report of what the merge changed. A cycle already running for the
	// same account fails fast with ErrSyncInProgress. On any error the
	// locally persisted set is left exactly as it was before the call.
	SyncAccount(ctx context.Context, accountIndex uint32) (*models.LabelSet, *models.SyncReport, error)
}

// ContextProvider builds the per-cycle encryption context and the remote
// file name for an account. The keyring implements it; the sync engine
// only consumes the result and purges it at cycle end.
type ContextProvider interface {
	Context(ctx context.Context, accountIndex uint32) (*models.EncryptionContext, string, error)
}

// SyncJob schedules periodic sync cycles for one account in the
// background. Start is idempotent in the sense that it replaces any
// previously running schedule.
type SyncJob interface {
	Start(ctx context.Context, accountIndex uint32, interval time.Duration)
	Stop()
}
