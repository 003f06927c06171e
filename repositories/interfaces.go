package repositories

import (
	"context"

	"github.com/zenidr/todo-cognito-api/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// TodoRepository handles todo data operations. Every operation is scoped to
// the owning username; a row belonging to someone else behaves as absent.
type TodoRepository interface {
	// Create inserts a new todo and fills in its generated ID
	Create(ctx context.Context, todo *models.Todo) error

	// GetByID retrieves a todo by ID for the given owner
	GetByID(ctx context.Context, id int64, username string) (*models.Todo, error)

	// List retrieves the owner's todos, newest first, with pagination
	List(ctx context.Context, username string, limit, offset int) ([]*models.Todo, error)

	// Update writes the todo's task, completed flag, and update timestamp
	Update(ctx context.Context, todo *models.Todo) error

	// Delete removes a todo by ID for the given owner
	Delete(ctx context.Context, id int64, username string) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Todos TodoRepository
}
