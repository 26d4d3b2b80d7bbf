package store

import (
	"context"
	"fmt"

	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/logger"
)

// Storages groups the local repositories into a single value passed to the
// service layer.
type Storages struct {
	Labels      LabelRepository
	Credentials CredentialRepository
}

// NewStorages opens the local SQLite database, runs pending migrations and
// wires up the repositories.
func NewStorages(ctx context.Context, cfg config.LocalDB, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("opening local storage...")

	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Labels:      NewLabelRepository(db, log),
		Credentials: NewCredentialRepository(db, log),
	}, nil
}
