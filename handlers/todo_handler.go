package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/middleware"
	"github.com/zenidr/todo-cognito-api/models"
	"github.com/zenidr/todo-cognito-api/services/todo"
	"github.com/zenidr/todo-cognito-api/utils"
)

// TodoListResponse is the response body for todo listings
type TodoListResponse struct {
	Status  string         `json:"status"`
	Results int            `json:"results"`
	Todos   []*models.Todo `json:"todos"`
}

// TodoEnvelope wraps a single todo in data responses
type TodoEnvelope struct {
	Todo *models.Todo `json:"todo"`
}

// TodoService defines the interface for todo operations
type TodoService interface {
	List(ctx context.Context, username string, req todo.ListRequest) ([]*models.Todo, error)
	Create(ctx context.Context, username string, req *models.CreateTodoRequest) (*models.Todo, error)
	Get(ctx context.Context, username string, id int64) (*models.Todo, error)
	Update(ctx context.Context, username string, id int64, req *models.UpdateTodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, username string, id int64) error
}

// TodoHandler handles todo CRUD requests
type TodoHandler struct {
	todoService TodoService
	logger      *zap.Logger
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// HandleListTodos handles GET /todos
func (h *TodoHandler) HandleListTodos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		h.logger.Error("missing identity in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	req := todo.ListRequest{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	todos, err := h.todoService.List(ctx, identity.Username, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("listed todos",
		zap.String("username", identity.Username),
		zap.Int("count", len(todos)))

	_ = utils.WriteJSON(w, http.StatusOK, TodoListResponse{
		Status:  utils.StatusSuccess,
		Results: len(todos),
		Todos:   todos,
	})
}

// HandleCreateTodo handles POST /todos
func (h *TodoHandler) HandleCreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		h.logger.Error("missing identity in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	created, err := h.todoService.Create(ctx, identity.Username, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("todo created",
		zap.String("request_id", requestID),
		zap.Int64("todo_id", created.ID),
		zap.String("username", identity.Username))

	_ = utils.WriteData(w, http.StatusCreated, TodoEnvelope{Todo: created})
}

// HandleGetTodo handles GET /todos/{id}
func (h *TodoHandler) HandleGetTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		h.logger.Error("missing identity in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid todo ID")
		return
	}

	found, err := h.todoService.Get(ctx, identity.Username, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteData(w, http.StatusOK, TodoEnvelope{Todo: found})
}

// HandleUpdateTodo handles PATCH /todos/{id}
func (h *TodoHandler) HandleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		h.logger.Error("missing identity in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid todo ID")
		return
	}

	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	updated, err := h.todoService.Update(ctx, identity.Username, id, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("todo updated",
		zap.String("request_id", requestID),
		zap.Int64("todo_id", id),
		zap.String("username", identity.Username))

	_ = utils.WriteData(w, http.StatusOK, TodoEnvelope{Todo: updated})
}

// HandleDeleteTodo handles DELETE /todos/{id}
func (h *TodoHandler) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		h.logger.Error("missing identity in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid todo ID")
		return
	}

	if err := h.todoService.Delete(ctx, identity.Username, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("todo deleted",
		zap.String("request_id", requestID),
		zap.Int64("todo_id", id),
		zap.String("username", identity.Username))

	utils.WriteNoContent(w)
}

// parseTodoID reads the {id} route parameter
func parseTodoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// queryInt reads an integer query parameter, returning zero when the
// parameter is absent or not a number
func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
