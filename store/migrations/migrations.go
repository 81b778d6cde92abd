// Package migrations holds the SQLite schema for the slots table.
package migrations

import "embed"

// FS is read from its root by the migration runner, so the .sql files live here.
//
//go:embed *.sql
var FS embed.FS
