package sqlite

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/storekeeperapp/storekeeper-server/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	log := logger.New(logger.Config{Writer: io.Discard, Format: "json", Level: slog.LevelError})
	s, err := Open(dbPath, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

func TestOpen_SchemaIdempotent(t *testing.T) {
	s := newTestStore(t)

	// Re-running the schema must not error.
	if _, err := s.db.Exec(schemaSQL); err != nil {
		t.Fatalf("re-exec schema: %v", err)
	}
}
