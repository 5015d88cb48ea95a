package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pratsy91/todo-backend/internal/infrastructure/migrations"
	"github.com/pratsy91/todo-backend/internal/infrastructure/sqlite"
	"github.com/pratsy91/todo-backend/internal/testutil"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db, migrations.SQLite, testutil.Logger()); err != nil {
		t.Fatalf("Up: %v", err)
	}
	// Second run is a no-op.
	if err := migrations.Up(db, migrations.SQLite, testutil.Logger()); err != nil {
		t.Fatalf("Up again: %v", err)
	}

	for _, table := range []string{"users", "todos"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestUp_UnknownDialect(t *testing.T) {
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db, "oracle", nil); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}
