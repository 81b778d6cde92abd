package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteSlotsPutGetAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo-board.db")
	ctx := context.Background()

	s, err := NewSQLiteSlots(path)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	if _, err := s.Get(ctx, KeyTasks); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}

	value := `[{"id":"1","msg":"quote \" and emoji 🚀","status":"doing","isDeleted":false}]`
	if _, err := s.Put(ctx, KeyTasks, "[]"); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	rec, err := s.Put(ctx, KeyTasks, value)
	if err != nil {
		t.Fatalf("second put failed: %v", err)
	}
	if rec.Version != 2 || rec.Value != value {
		t.Fatalf("unexpected record after second put: %+v", rec)
	}
	if _, err := s.Put(ctx, KeyDarkMode, "true"); err != nil {
		t.Fatalf("put dark mode failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := NewSQLiteSlots(path)
	if err != nil {
		t.Fatalf("reopen sqlite failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if got.Value != value || got.Version != 2 {
		t.Fatalf("unexpected record after reopen: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("expected parsed update time")
	}

	dark, err := reopened.Get(ctx, KeyDarkMode)
	if err != nil || dark.Value != "true" || dark.Version != 1 {
		t.Fatalf("unexpected dark mode record: %+v err=%v", dark, err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		opts Options
		want string
	}{
		{Options{Driver: DriverFile, Dir: dir}, "*store.FileSlots"},
		{Options{Driver: "", Dir: dir}, "*store.FileSlots"},
		{Options{Driver: DriverMemory}, "*store.MemorySlots"},
		{Options{Driver: DriverSQLite, DBPath: filepath.Join(dir, "x.db")}, "*store.sqlSlots"},
	}
	for _, tc := range cases {
		s, err := Open(tc.opts)
		if err != nil {
			t.Fatalf("open %q failed: %v", tc.opts.Driver, err)
		}
		if got := typeName(s); got != tc.want {
			t.Fatalf("driver %q: want %s, got %s", tc.opts.Driver, tc.want, got)
		}
		_ = s.Close()
	}

	if _, err := Open(Options{Driver: "redis"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(Options{Driver: DriverMySQL}); err == nil {
		t.Fatalf("expected error for empty mysql dsn")
	}
}

func TestMySQLDialectAndRedaction(t *testing.T) {
	if !strings.Contains(mysqlDialect.upsert, "ON DUPLICATE KEY UPDATE") {
		t.Fatalf("expected mysql upsert syntax, got %s", mysqlDialect.upsert)
	}
	if !strings.Contains(sqliteDialect.upsert, "ON CONFLICT(slot_key)") {
		t.Fatalf("expected sqlite upsert syntax, got %s", sqliteDialect.upsert)
	}

	redacted := RedactDSN("board:s3cret@tcp(db.local:3306)/todo")
	if strings.Contains(redacted, "s3cret") {
		t.Fatalf("expected password hidden, got %s", redacted)
	}
	if !strings.Contains(redacted, "db.local:3306") {
		t.Fatalf("expected host kept, got %s", redacted)
	}
	if _, err := NewMySQLSlots("not a dsn"); err == nil {
		t.Fatalf("expected invalid dsn error")
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
