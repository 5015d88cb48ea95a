// Package store opens the configured persistence backend and exposes its repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/config"
	"github.com/pratsy91/todo-backend/internal/domain/repository"
	"github.com/pratsy91/todo-backend/internal/infrastructure/migrations"
	pginfra "github.com/pratsy91/todo-backend/internal/infrastructure/postgres"
	sqliteinfra "github.com/pratsy91/todo-backend/internal/infrastructure/sqlite"
)

type Store struct {
	Driver string
	Users  repository.UserRepository
	Todos  repository.TodoRepository

	pool *pgxpool.Pool
	db   *sql.DB
}

// Open connects to the backend selected by cfg.DBDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func OpenPostgres(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	// Migrations run on a short-lived database/sql handle via pgx stdlib
	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer func() { _ = db.Close() }()
	if err := migrations.Up(db, migrations.Postgres, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &Store{
		Driver: config.DriverPostgres,
		Users:  pginfra.NewUserRepository(pool),
		Todos:  pginfra.NewTodoRepository(pool),
		pool:   pool,
	}, nil
}

func OpenSQLite(ctx context.Context, path string, logger *logrus.Logger) (*Store, error) {
	db, err := sqliteinfra.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db, migrations.SQLite, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{
		Driver: config.DriverSQLite,
		Users:  sqliteinfra.NewUserRepository(db),
		Todos:  sqliteinfra.NewTodoRepository(db),
		db:     db,
	}, nil
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	if s.db != nil {
		return s.db.PingContext(ctx)
	}
	return fmt.Errorf("store not open")
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
