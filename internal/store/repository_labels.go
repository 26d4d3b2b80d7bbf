package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/models"
)

type labelRepository struct {
	db  *DB
	sb  sq.StatementBuilderType
	log *logger.Logger
}

// NewLabelRepository constructs the SQLite-backed [LabelRepository].
func NewLabelRepository(db *DB, log *logger.Logger) LabelRepository {
	return &labelRepository{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log: log,
	}
}

// LoadSet implements [LabelRepository].
func (r *labelRepository) LoadSet(ctx context.Context, accountIndex uint32) (*models.LabelSet, error) {
	set := models.NewLabelSet()

	query, args, err := r.sb.
		Select("version").
		From("label_sets").
		Where(sq.Eq{"account_id": accountIndex}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build version query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&set.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return set, nil // fresh account, empty set at version 0
	}
	if err != nil {
		return nil, fmt.Errorf("load label set version: %w", err)
	}

	query, args, err = r.sb.
		Select("entry_key", "text", "updated_at", "deleted").
		From("labels").
		Where(sq.Eq{"account_id": accountIndex}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build labels query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.LabelEntry
		if err := rows.Scan(&e.Key, &e.Text, &e.UpdatedAt, &e.Deleted); err != nil {
			return nil, fmt.Errorf("scan label row: %w", err)
		}
		set.Entries[e.Key] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label rows: %w", err)
	}

	return set, nil
}

// SaveSet implements [LabelRepository]. The whole replacement runs in one
// transaction: either the new set and bumped version land together, or
// nothing changes.
func (r *labelRepository) SaveSet(ctx context.Context, accountIndex uint32, set *models.LabelSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := r.sb.
		Delete("labels").
		Where(sq.Eq{"account_id": accountIndex}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear previous labels: %w", err)
	}

	for _, e := range set.Entries {
		query, args, err = r.sb.
			Insert("labels").
			Columns("account_id", "entry_key", "text", "updated_at", "deleted").
			Values(accountIndex, e.Key, e.Text, e.UpdatedAt, e.Deleted).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert label %s: %w", e.Key, err)
		}
	}

	query, args, err = r.sb.
		Insert("label_sets").
		Columns("account_id", "version").
		Values(accountIndex, set.Version+1).
		Suffix("ON CONFLICT(account_id) DO UPDATE SET version = excluded.version").
		ToSql()
	if err != nil {
		return fmt.Errorf("build version upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bump set version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit label set: %w", err)
	}
	set.Version++
	return nil
}
