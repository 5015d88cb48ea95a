package entity

import "time"

// Todo is a single task owned by exactly one user.
// UserID is fixed at creation; only Text and Completed change afterwards.
type Todo struct {
	ID        string
	Text      string
	Completed bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether uid is the owner of the todo.
func (t *Todo) OwnedBy(uid string) bool {
	return t != nil && uid != "" && t.UserID == uid
}
