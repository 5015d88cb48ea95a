package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	repo "github.com/pratsy91/todo-backend/internal/domain/repository"
	"github.com/pratsy91/todo-backend/pkg/metrics"
	"github.com/pratsy91/todo-backend/pkg/validation"
)

// TodoPatch is a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// TodoService is the ownership-checked CRUD surface over todos.
// Every operation is scoped to the authenticated caller uid.
type TodoService struct {
	Repo    repo.TodoRepository
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
}

func NewTodoService(repo repo.TodoRepository, logger *logrus.Logger) *TodoService {
	return &TodoService{Repo: repo, Logger: logger}
}

// List returns the caller's todos in insertion order; never nil.
func (s *TodoService) List(ctx context.Context, uid string) ([]entity.Todo, error) {
	todos, err := s.Repo.ListByOwner(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []entity.Todo{}
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, uid, text string) (*entity.Todo, error) {
	if validation.IsBlank(text) {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	t := &entity.Todo{Text: text, Completed: false, UserID: uid}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	s.Metrics.TodoOp(metrics.OpCreate)
	return t, nil
}

// Update applies patch to an item owned by uid. Lookup and ownership are
// checked before the patch is validated.
func (s *TodoService) Update(ctx context.Context, uid, id string, patch TodoPatch) (*entity.Todo, error) {
	t, err := s.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil && validation.IsBlank(*patch.Text) {
		return nil, fmt.Errorf("%w: text must not be blank", ErrValidation)
	}
	if patch.Text == nil && patch.Completed == nil {
		return t, nil
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	s.Metrics.TodoOp(metrics.OpUpdate)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, uid, id string) error {
	if _, err := s.owned(ctx, uid, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	s.Metrics.TodoOp(metrics.OpDelete)
	return nil
}

// owned loads the todo and rejects callers that do not own it.
// Lookup always happens before any mutation.
func (s *TodoService) owned(ctx context.Context, uid, id string) (*entity.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTodoNotFound
	}
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if !t.OwnedBy(uid) {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": uid, "todo_id": id}).Warn("todo ownership mismatch")
		}
		return nil, ErrForbidden
	}
	return t, nil
}
