package models

import (
	"time"
)

// Todo represents a single todo item owned by an authenticated user
type Todo struct {
	ID        int64     `json:"id" db:"id"`
	Task      string    `json:"task" db:"task"`
	Completed bool      `json:"completed" db:"completed"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Todo model
func (Todo) TableName() string {
	return "todos"
}

// NewTodo creates a new Todo instance owned by username
func NewTodo(username, task string, completed bool) *Todo {
	now := time.Now()
	return &Todo{
		Task:      task,
		Completed: completed,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTodoRequest is the request body for creating a todo
type CreateTodoRequest struct {
	Task      string `json:"task" validate:"required,max=255"`
	Completed bool   `json:"completed"`
}

// UpdateTodoRequest is the request body for updating a todo. Nil fields
// are left unchanged.
type UpdateTodoRequest struct {
	Task      *string `json:"task,omitempty" validate:"omitempty,min=1,max=255"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no changes
func (r UpdateTodoRequest) IsEmpty() bool {
	return r.Task == nil && r.Completed == nil
}

// ApplyTo copies the set fields onto todo and refreshes UpdatedAt
func (r UpdateTodoRequest) ApplyTo(todo *Todo) {
	if r.Task != nil {
		todo.Task = *r.Task
	}
	if r.Completed != nil {
		todo.Completed = *r.Completed
	}
	todo.UpdatedAt = time.Now()
}
