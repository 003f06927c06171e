package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodo(t *testing.T) {
	username := "alice"
	task := "buy milk"

	todo := NewTodo(username, task, false)

	assert.Equal(t, int64(0), todo.ID)
	assert.Equal(t, task, todo.Task)
	assert.Equal(t, username, todo.Username)
	assert.False(t, todo.Completed)
	assert.False(t, todo.CreatedAt.IsZero())
	assert.False(t, todo.UpdatedAt.IsZero())
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
}

func TestTodo_TableName(t *testing.T) {
	todo := Todo{}
	assert.Equal(t, "todos", todo.TableName())
}

func TestTodo_JSONMarshaling(t *testing.T) {
	todo := Todo{
		ID:        42,
		Task:      "write report",
		Completed: true,
		Username:  "bob",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(todo)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(42), decoded["id"])
	assert.Equal(t, "write report", decoded["task"])
	assert.Equal(t, true, decoded["completed"])
	assert.Equal(t, "bob", decoded["username"])
	assert.Contains(t, decoded, "created_at")
	assert.Contains(t, decoded, "updated_at")
}

func TestUpdateTodoRequest_IsEmpty(t *testing.T) {
	task := "new task"
	completed := true

	tests := []struct {
		name string
		req  UpdateTodoRequest
		want bool
	}{
		{"no fields", UpdateTodoRequest{}, true},
		{"task only", UpdateTodoRequest{Task: &task}, false},
		{"completed only", UpdateTodoRequest{Completed: &completed}, false},
		{"both", UpdateTodoRequest{Task: &task, Completed: &completed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.IsEmpty())
		})
	}
}

func TestUpdateTodoRequest_ApplyTo(t *testing.T) {
	t.Run("task only", func(t *testing.T) {
		todo := NewTodo("alice", "old task", false)
		before := todo.UpdatedAt

		task := "new task"
		req := UpdateTodoRequest{Task: &task}
		req.ApplyTo(todo)

		assert.Equal(t, "new task", todo.Task)
		assert.False(t, todo.Completed)
		assert.True(t, !todo.UpdatedAt.Before(before))
	})

	t.Run("completed only", func(t *testing.T) {
		todo := NewTodo("alice", "old task", false)

		completed := true
		req := UpdateTodoRequest{Completed: &completed}
		req.ApplyTo(todo)

		assert.Equal(t, "old task", todo.Task)
		assert.True(t, todo.Completed)
	})

	t.Run("both fields", func(t *testing.T) {
		todo := NewTodo("alice", "old task", false)

		task := "new task"
		completed := true
		req := UpdateTodoRequest{Task: &task, Completed: &completed}
		req.ApplyTo(todo)

		assert.Equal(t, "new task", todo.Task)
		assert.True(t, todo.Completed)
	})
}

func TestCreateTodoRequest_JSONDecoding(t *testing.T) {
	var req CreateTodoRequest
	err := json.Unmarshal([]byte(`{"task":"buy milk","completed":false}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", req.Task)
	assert.False(t, req.Completed)
}
