package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = sqlDialect{
	name: DriverMySQL,
	upsert: `
		INSERT INTO slots (slot_key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON DUPLICATE KEY UPDATE
			value = VALUES(value),
			version = version + 1,
			updated_at = VALUES(updated_at)
	`,
}

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS slots (
		slot_key   VARCHAR(191) NOT NULL PRIMARY KEY,
		value      LONGTEXT NOT NULL,
		version    BIGINT NOT NULL DEFAULT 1,
		updated_at VARCHAR(64) NOT NULL
	) CHARACTER SET utf8mb4
`

// NewMySQLSlots connects to MySQL and creates the slots table if missing.
func NewMySQLSlots(dsn string) (Slots, error) {
	if dsn == "" {
		return nil, errors.New("mysql dsn is empty")
	}
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return newSQLSlots(db, mysqlDialect), nil
}

// RedactDSN hides the password of a MySQL DSN for logs.
func RedactDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "xxxxx"
	}
	return cfg.FormatDSN()
}
