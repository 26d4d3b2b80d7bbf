package store

//go:generate mockgen -source=interfaces.go -destination=../mock/repositories_mock.go -package=mock

import (
	"context"

	"github.com/walletmesh/labelsync/models"
)

// LabelRepository persists the label set between sync cycles. The sync
// engine loads the set at cycle start, owns it exclusively during the
// cycle, and saves the merged result only after a completed upload.
type LabelRepository interface {
	// LoadSet returns the persisted label set for the account, or an
	// empty set at version 0 when none has been saved yet.
	LoadSet(ctx context.Context, accountIndex uint32) (*models.LabelSet, error)

	// SaveSet atomically replaces the stored set for the account and
	// bumps its version counter. Partial writes are never visible.
	SaveSet(ctx context.Context, accountIndex uint32, set *models.LabelSet) error
}

// CredentialRepository persists the sealed remote-storage credential.
// Only the encrypted blob ever reaches this layer.
type CredentialRepository interface {
	// SaveBlob stores the sealed credential, replacing any previous one.
	SaveBlob(ctx context.Context, blob []byte) error

	// LoadBlob returns the sealed credential, or ErrNoCredential when
	// sync has never been authorized (or was disabled).
	LoadBlob(ctx context.Context) ([]byte, error)

	// DeleteBlob removes the sealed credential, leaving no residual
	// token material in storage.
	DeleteBlob(ctx context.Context) error
}
