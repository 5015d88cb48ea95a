// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	"github.com/pratsy91/todo-backend/internal/infrastructure/sqlite"
	"github.com/pratsy91/todo-backend/internal/infrastructure/store"
	"github.com/pratsy91/todo-backend/pkg/helpers"
)

// BcryptCost keeps hashing fast in tests.
const BcryptCost = 4

const JWTSecret = "test-secret-key-for-unit-tests"

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewStore opens a migrated SQLite store in a temp directory.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return OpenStore(t, filepath.Join(t.TempDir(), "test.db"))
}

// OpenStore opens a migrated SQLite store at path.
func OpenStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.OpenSQLite(context.Background(), path, Logger())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(st.Close)
	return st
}

// CreateUser inserts a user with a hashed password.
func CreateUser(t *testing.T, st *store.Store, name, email, password string) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(password, BcryptCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := st.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return u
}

// DeleteUser removes a user row behind the store's back, the way an operator would.
func DeleteUser(t *testing.T, path, id string) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	defer db.Close()
	res, err := db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("delete user: %d rows affected", n)
	}
}
