package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/walletmesh/labelsync/internal/logger"
)

// credentialRowID is the single row the sealed credential lives in. One
// wallet process owns one remote-storage credential.
const credentialRowID = 1

type credentialRepository struct {
	db  *DB
	sb  sq.StatementBuilderType
	log *logger.Logger
}

// NewCredentialRepository constructs the SQLite-backed
// [CredentialRepository].
func NewCredentialRepository(db *DB, log *logger.Logger) CredentialRepository {
	return &credentialRepository{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log: log,
	}
}

// SaveBlob implements [CredentialRepository].
func (r *credentialRepository) SaveBlob(ctx context.Context, blob []byte) error {
	query, args, err := r.sb.
		Insert("credentials").
		Columns("id", "blob").
		Values(credentialRowID, blob).
		Suffix("ON CONFLICT(id) DO UPDATE SET blob = excluded.blob").
		ToSql()
	if err != nil {
		return fmt.Errorf("build credential upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save credential blob: %w", err)
	}
	return nil
}

// LoadBlob implements [CredentialRepository].
func (r *credentialRepository) LoadBlob(ctx context.Context) ([]byte, error) {
	query, args, err := r.sb.
		Select("blob").
		From("credentials").
		Where(sq.Eq{"id": credentialRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build credential query: %w", err)
	}

	var blob []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("load credential blob: %w", err)
	}
	return blob, nil
}

// DeleteBlob implements [CredentialRepository].
func (r *credentialRepository) DeleteBlob(ctx context.Context) error {
	query, args, err := r.sb.
		Delete("credentials").
		Where(sq.Eq{"id": credentialRowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build credential delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete credential blob: %w", err)
	}
	return nil
}
