package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Slot keys. Each record is written independently of the other.
const (
	KeyTasks    = "todos"
	KeyDarkMode = "darkMode"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

var (
	ErrSlotNotFound  = errors.New("slot not found")
	ErrInvalidKey    = errors.New("invalid slot key")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Record is one versioned value stored under a key.
type Record struct {
	Key       string
	Value     string
	Version   int64
	UpdatedAt time.Time
	// Source names where the value was read from (file path, table row, backup).
	Source string
}

// Slots is a string-keyed store of text records.
type Slots interface {
	Get(ctx context.Context, key string) (Record, error)
	Put(ctx context.Context, key, value string) (Record, error)
	Close() error
}

// Recoverer is implemented by backends that keep older copies of a record.
type Recoverer interface {
	// Backups returns earlier values of key, newest first.
	Backups(ctx context.Context, key string) ([]Record, error)
	// Quarantine moves the current value of key aside and returns where it went.
	Quarantine(ctx context.Context, key string) (string, error)
}

// Options selects and configures a backend.
type Options struct {
	Driver  string
	Dir     string
	DBPath  string
	DSN     string
	Backups int
}

// Open builds the backend named by opts.Driver.
func Open(opts Options) (Slots, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileSlots(opts.Dir, opts.Backups)
	case DriverSQLite:
		return NewSQLiteSlots(opts.DBPath)
	case DriverMySQL:
		return NewMySQLSlots(opts.DSN)
	case DriverMemory:
		return NewMemorySlots(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
