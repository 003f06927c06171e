package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/models"
	"github.com/zenidr/todo-cognito-api/repositories"
	"github.com/zenidr/todo-cognito-api/services"
)

// uniqueViolation is the Postgres error code for a unique constraint breach
const uniqueViolation = "23505"

// TodoRepository implements the repositories.TodoRepository interface
type TodoRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB, logger *zap.Logger) repositories.TodoRepository {
	return &TodoRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new todo and fills in the generated ID
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (task, completed, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		todo.Task,
		todo.Completed,
		todo.Username,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&todo.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return services.ErrDuplicateTodo.Wrap(err)
		}
		return services.WrapInternal("failed to create todo", err)
	}

	r.logger.Debug("todo created",
		zap.Int64("id", todo.ID),
		zap.String("username", todo.Username))
	return nil
}

// GetByID retrieves a todo by ID for the given owner
func (r *TodoRepository) GetByID(ctx context.Context, id int64, username string) (*models.Todo, error) {
	query := `
		SELECT id, task, completed, username, created_at, updated_at
		FROM todos
		WHERE id = $1 AND username = $2
	`

	executor := GetExecutor(ctx, r.db)
	todo := &models.Todo{}

	err := executor.QueryRowContext(ctx, query, id, username).Scan(
		&todo.ID,
		&todo.Task,
		&todo.Completed,
		&todo.Username,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, todoNotFound(id)
		}
		return nil, services.WrapInternal("failed to get todo", err)
	}

	return todo, nil
}

// List retrieves the owner's todos, newest first, with pagination
func (r *TodoRepository) List(ctx context.Context, username string, limit, offset int) ([]*models.Todo, error) {
	query := `
		SELECT id, task, completed, username, created_at, updated_at
		FROM todos
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list todos", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		err := rows.Scan(
			&todo.ID,
			&todo.Task,
			&todo.Completed,
			&todo.Username,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		)
		if err != nil {
			return nil, services.WrapInternal("failed to scan todo", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, services.WrapInternal("error iterating todo rows", err)
	}

	return todos, nil
}

// Update writes the todo's task, completed flag, and update timestamp
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET task = $3,
		    completed = $4,
		    updated_at = $5
		WHERE id = $1 AND username = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		todo.ID,
		todo.Username,
		todo.Task,
		todo.Completed,
		todo.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return services.ErrDuplicateTodo.Wrap(err)
		}
		return services.WrapInternal("failed to update todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return services.WrapInternal("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return todoNotFound(todo.ID)
	}

	r.logger.Debug("todo updated",
		zap.Int64("id", todo.ID),
		zap.String("username", todo.Username))
	return nil
}

// Delete removes a todo by ID for the given owner
func (r *TodoRepository) Delete(ctx context.Context, id int64, username string) error {
	query := `DELETE FROM todos WHERE id = $1 AND username = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, username)
	if err != nil {
		return services.WrapInternal("failed to delete todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return services.WrapInternal("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return todoNotFound(id)
	}

	r.logger.Debug("todo deleted",
		zap.Int64("id", id),
		zap.String("username", username))
	return nil
}

// todoNotFound builds the not-found domain error for a todo ID
func todoNotFound(id int64) error {
	return services.NewDomainError(services.ErrorTypeNotFound,
		fmt.Sprintf("todo with ID %d not found", id), nil)
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
