package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/models"
	"github.com/zenidr/todo-cognito-api/repositories"
	"github.com/zenidr/todo-cognito-api/services"
)

// MockTodoRepository is a mock implementation of repositories.TodoRepository
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoRepository) GetByID(ctx context.Context, id int64, username string) (*models.Todo, error) {
	args := m.Called(ctx, id, username)
	if todo := args.Get(0); todo != nil {
		return todo.(*models.Todo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTodoRepository) List(ctx context.Context, username string, limit, offset int) ([]*models.Todo, error) {
	args := m.Called(ctx, username, limit, offset)
	if todos := args.Get(0); todos != nil {
		return todos.([]*models.Todo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoRepository) Delete(ctx context.Context, id int64, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

// MockTransactionManager is a mock implementation of repositories.TransactionManager.
// InTransaction runs the callback so read-modify-write paths execute in tests.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, nil)
}

func newTestService() (*Service, *MockTodoRepository, *MockTransactionManager) {
	repo := new(MockTodoRepository)
	txManager := new(MockTransactionManager)
	return NewService(repo, txManager, zap.NewNop()), repo, txManager
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestList_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		req        ListRequest
		wantLimit  int
		wantOffset int
	}{
		{"defaults apply when unset", ListRequest{}, 10, 0},
		{"page and limit translate to limit and offset", ListRequest{Page: 3, Limit: 5}, 5, 10},
		{"negative page falls back to the first", ListRequest{Page: -2, Limit: 5}, 5, 0},
		{"limit is capped", ListRequest{Page: 1, Limit: 1000}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestService()

			repo.On("List", mock.Anything, "alice", tt.wantLimit, tt.wantOffset).
				Return([]*models.Todo{}, nil)

			todos, err := service.List(context.Background(), "alice", tt.req)

			require.NoError(t, err)
			assert.NotNil(t, todos)
			repo.AssertExpectations(t)
		})
	}
}

func TestList_PropagatesRepositoryError(t *testing.T) {
	service, repo, _ := newTestService()

	repo.On("List", mock.Anything, "alice", 10, 0).
		Return(nil, services.WrapInternal("failed to list todos", errors.New("connection reset")))

	todos, err := service.List(context.Background(), "alice", ListRequest{})

	require.Error(t, err)
	assert.Nil(t, todos)
	assert.True(t, services.IsInternalError(err))
}

func TestCreate(t *testing.T) {
	t.Run("stores a todo owned by the user", func(t *testing.T) {
		service, repo, _ := newTestService()

		repo.On("Create", mock.Anything, mock.MatchedBy(func(todo *models.Todo) bool {
			return todo.Username == "alice" && todo.Task == "write tests" && !todo.Completed
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Todo).ID = 5
		})

		todo, err := service.Create(context.Background(), "alice", &models.CreateTodoRequest{Task: "write tests"})

		require.NoError(t, err)
		assert.Equal(t, int64(5), todo.ID)
		assert.Equal(t, "alice", todo.Username)
		assert.WithinDuration(t, time.Now(), todo.CreatedAt, time.Second)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate task propagates as a conflict", func(t *testing.T) {
		service, repo, _ := newTestService()

		repo.On("Create", mock.Anything, mock.Anything).
			Return(services.ErrDuplicateTodo)

		todo, err := service.Create(context.Background(), "alice", &models.CreateTodoRequest{Task: "write tests"})

		require.Error(t, err)
		assert.Nil(t, todo)
		assert.True(t, services.IsConflictError(err))
	})
}

func TestGet(t *testing.T) {
	service, repo, _ := newTestService()
	stored := &models.Todo{ID: 3, Task: "buy milk", Username: "alice"}

	repo.On("GetByID", mock.Anything, int64(3), "alice").Return(stored, nil)

	todo, err := service.Get(context.Background(), "alice", 3)

	require.NoError(t, err)
	assert.Equal(t, stored, todo)
}

func TestUpdate(t *testing.T) {
	t.Run("empty update is rejected before any storage call", func(t *testing.T) {
		service, repo, txManager := newTestService()

		todo, err := service.Update(context.Background(), "alice", 3, &models.UpdateTodoRequest{})

		require.Error(t, err)
		assert.Nil(t, todo)
		assert.True(t, services.IsValidationError(err))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
		txManager.AssertNotCalled(t, "InTransaction", mock.Anything, mock.Anything)
	})

	t.Run("applies the set fields and keeps the rest", func(t *testing.T) {
		service, repo, txManager := newTestService()
		stored := &models.Todo{ID: 3, Task: "buy milk", Completed: false, Username: "alice"}

		txManager.On("InTransaction", mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, int64(3), "alice").Return(stored, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(todo *models.Todo) bool {
			return todo.ID == 3 && todo.Task == "buy oat milk" && !todo.Completed
		})).Return(nil)

		todo, err := service.Update(context.Background(), "alice", 3,
			&models.UpdateTodoRequest{Task: strPtr("buy oat milk")})

		require.NoError(t, err)
		assert.Equal(t, "buy oat milk", todo.Task)
		assert.False(t, todo.Completed)
		assert.WithinDuration(t, time.Now(), todo.UpdatedAt, time.Second)
		repo.AssertExpectations(t)
	})

	t.Run("toggling completed leaves the task alone", func(t *testing.T) {
		service, repo, txManager := newTestService()
		stored := &models.Todo{ID: 3, Task: "buy milk", Completed: false, Username: "alice"}

		txManager.On("InTransaction", mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, int64(3), "alice").Return(stored, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(todo *models.Todo) bool {
			return todo.Task == "buy milk" && todo.Completed
		})).Return(nil)

		todo, err := service.Update(context.Background(), "alice", 3,
			&models.UpdateTodoRequest{Completed: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, todo.Completed)
	})

	t.Run("missing todo propagates as not found", func(t *testing.T) {
		service, repo, txManager := newTestService()

		txManager.On("InTransaction", mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, int64(99), "alice").
			Return(nil, services.ErrTodoNotFound)

		todo, err := service.Update(context.Background(), "alice", 99,
			&models.UpdateTodoRequest{Completed: boolPtr(true)})

		require.Error(t, err)
		assert.Nil(t, todo)
		assert.True(t, services.IsNotFoundError(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("renaming onto an existing task propagates as a conflict", func(t *testing.T) {
		service, repo, txManager := newTestService()
		stored := &models.Todo{ID: 3, Task: "buy milk", Username: "alice"}

		txManager.On("InTransaction", mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, int64(3), "alice").Return(stored, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(services.ErrDuplicateTodo)

		todo, err := service.Update(context.Background(), "alice", 3,
			&models.UpdateTodoRequest{Task: strPtr("walk the dog")})

		require.Error(t, err)
		assert.Nil(t, todo)
		assert.True(t, services.IsConflictError(err))
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes the todo", func(t *testing.T) {
		service, repo, _ := newTestService()

		repo.On("Delete", mock.Anything, int64(3), "alice").Return(nil)

		err := service.Delete(context.Background(), "alice", 3)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing todo propagates as not found", func(t *testing.T) {
		service, repo, _ := newTestService()

		repo.On("Delete", mock.Anything, int64(99), "alice").
			Return(services.ErrTodoNotFound)

		err := service.Delete(context.Background(), "alice", 99)

		require.Error(t, err)
		assert.True(t, services.IsNotFoundError(err))
	})
}
