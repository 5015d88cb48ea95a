package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	"github.com/pratsy91/todo-backend/internal/domain/repository"
)

// TodoRepository implements repository.TodoRepository on SQLite.
// Insertion order is the implicit rowid.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO todos (id, text, completed, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Text, t.Completed, t.UserID, now, now)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (*entity.Todo, error) {
	t := &entity.Todo{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, text, completed, user_id, created_at, updated_at
		FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.Text, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, completed, user_id, created_at, updated_at
		FROM todos WHERE user_id = ?
		ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []entity.Todo{}
	for rows.Next() {
		var t entity.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Update(ctx context.Context, t *entity.Todo) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE todos SET text = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`, t.Text, t.Completed, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return requireOneRow(res)
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
