package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	"github.com/pratsy91/todo-backend/internal/domain/repository"
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO todos (id, text, completed, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, t.ID, t.Text, t.Completed, t.UserID)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (*entity.Todo, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	t := &entity.Todo{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, text, completed, user_id, created_at, updated_at
		FROM todos
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Text, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Todo, error) {
	todos := []entity.Todo{}
	if !validID(userID) {
		return todos, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, text, completed, user_id, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

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
	if !validID(t.ID) {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()

	res, err := r.pool.Exec(ctx, `
		UPDATE todos
		SET text = $1, completed = $2, updated_at = $3
		WHERE id = $4
	`, t.Text, t.Completed, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
