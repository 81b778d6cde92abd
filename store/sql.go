package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqlDialect carries the statements that differ between SQL engines.
type sqlDialect struct {
	name   string
	upsert string
}

// sqlSlots stores records in a slots(slot_key, value, version, updated_at) table.
type sqlSlots struct {
	db      *sql.DB
	dialect sqlDialect
	now     func() time.Time
}

func newSQLSlots(db *sql.DB, dialect sqlDialect) *sqlSlots {
	return &sqlSlots{db: db, dialect: dialect, now: time.Now}
}

func (s *sqlSlots) Get(ctx context.Context, key string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	return s.get(ctx, s.db, key)
}

func (s *sqlSlots) Put(ctx context.Context, key, value string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("could not start transaction: %w", err)
	}

	updatedAt := s.now().UTC()
	if _, err := tx.ExecContext(ctx, s.dialect.upsert, key, value, updatedAt.Format(time.RFC3339Nano)); err != nil {
		_ = tx.Rollback()
		return Record{}, fmt.Errorf("could not write slot %s: %w", key, err)
	}

	rec, err := s.get(ctx, tx, key)
	if err != nil {
		_ = tx.Rollback()
		return Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return rec, nil
}

func (s *sqlSlots) Close() error {
	return s.db.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqlSlots) get(ctx context.Context, q queryRower, key string) (Record, error) {
	const query = `SELECT value, version, updated_at FROM slots WHERE slot_key = ?`

	var (
		rec       = Record{Key: key, Source: s.dialect.name + ":slots/" + key}
		updatedAt string
	)
	err := q.QueryRowContext(ctx, query, key).Scan(&rec.Value, &rec.Version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrSlotNotFound
		}
		return Record{}, fmt.Errorf("could not read slot %s: %w", key, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec, nil
}
