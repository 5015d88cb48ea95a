package repository

import (
	"context"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
)

// TodoRepository persists todos. Every mutation is a single statement keyed by id.
type TodoRepository interface {
	Create(ctx context.Context, t *entity.Todo) error
	GetByID(ctx context.Context, id string) (*entity.Todo, error)
	// ListByOwner returns the owner's todos in insertion order.
	ListByOwner(ctx context.Context, userID string) ([]entity.Todo, error)
	// Update writes Text and Completed; the owner column is never touched.
	Update(ctx context.Context, t *entity.Todo) error
	Delete(ctx context.Context, id string) error
}
