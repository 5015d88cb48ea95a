package handlers

import (
	"time"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
)

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type authResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

type todoResponse struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTodoResponse(t *entity.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		User:      t.UserID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTodoResponses(todos []entity.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, toTodoResponse(&todos[i]))
	}
	return out
}
