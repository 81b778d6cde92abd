package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agalitsyn/sqlite"

	"todo-board/store/migrations"
)

var sqliteDialect = sqlDialect{
	name: DriverSQLite,
	upsert: `
		INSERT INTO slots (slot_key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(slot_key) DO UPDATE SET
			value = excluded.value,
			version = slots.version + 1,
			updated_at = excluded.updated_at
	`,
}

// NewSQLiteSlots opens (creating if needed) a SQLite database and applies migrations.
func NewSQLiteSlots(path string) (Slots, error) {
	if path == "" {
		return nil, errors.New("sqlite database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sqlite.Connect(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return newSQLSlots(db, sqliteDialect), nil
}
