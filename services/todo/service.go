package todo

import (
	"context"

	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/models"
	"github.com/zenidr/todo-cognito-api/repositories"
	"github.com/zenidr/todo-cognito-api/services"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListRequest carries the pagination settings for a todo listing
type ListRequest struct {
	Page  int
	Limit int
}

// normalize clamps the pagination settings to sane values
func (r ListRequest) normalize() (page, limit int) {
	page = r.Page
	if page < 1 {
		page = defaultPage
	}

	limit = r.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// Service handles todo business logic on top of the repository
type Service struct {
	repo      repositories.TodoRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a new todo service
func NewService(repo repositories.TodoRepository, txManager repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// List returns a page of the user's todos, newest first
func (s *Service) List(ctx context.Context, username string, req ListRequest) ([]*models.Todo, error) {
	page, limit := req.normalize()
	offset := (page - 1) * limit

	return s.repo.List(ctx, username, limit, offset)
}

// Create stores a new todo owned by the user
func (s *Service) Create(ctx context.Context, username string, req *models.CreateTodoRequest) (*models.Todo, error) {
	todo := models.NewTodo(username, req.Task, req.Completed)

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Info("todo created",
		zap.Int64("id", todo.ID),
		zap.String("username", username))
	return todo, nil
}

// Get returns the user's todo with the given ID
func (s *Service) Get(ctx context.Context, username string, id int64) (*models.Todo, error) {
	return s.repo.GetByID(ctx, id, username)
}

// Update applies a partial update to the user's todo. The read and the write
// run in one transaction so concurrent updates cannot interleave.
func (s *Service) Update(ctx context.Context, username string, id int64, req *models.UpdateTodoRequest) (*models.Todo, error) {
	if req.IsEmpty() {
		return nil, services.ErrEmptyUpdate
	}

	var updated *models.Todo
	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		todo, err := s.repo.GetByID(txCtx, id, username)
		if err != nil {
			return err
		}

		req.ApplyTo(todo)

		if err := s.repo.Update(txCtx, todo); err != nil {
			return err
		}

		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo updated",
		zap.Int64("id", id),
		zap.String("username", username))
	return updated, nil
}

// Delete removes the user's todo with the given ID
func (s *Service) Delete(ctx context.Context, username string, id int64) error {
	if err := s.repo.Delete(ctx, id, username); err != nil {
		return err
	}

	s.logger.Info("todo deleted",
		zap.Int64("id", id),
		zap.String("username", username))
	return nil
}
