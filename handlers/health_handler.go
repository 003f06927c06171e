package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/utils"
)

// rootMessage is the static body served on the public health route
const rootMessage = "Simple CRUD API with Go, chi, Postgres, and Cognito"

// HealthResponse represents the readiness check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]string      `json:"checks,omitempty"`
	JWKSCache map[string]interface{} `json:"jwks_cache,omitempty"`
}

// DatabaseChecker reports storage connectivity
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) error
}

// KeyCacheStats exposes the token verifier's signing key cache state
type KeyCacheStats interface {
	CacheStats() map[string]interface{}
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     DatabaseChecker
	keys   KeyCacheStats
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker, keys KeyCacheStats, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		keys:   keys,
		logger: logger,
	}
}

// HandleRoot handles GET /
// Static service banner - always returns 200 if the process is up
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteSuccess(w, http.StatusOK, rootMessage)
}

// HandleHealthz handles GET /healthz
// Readiness check - validates that dependencies are available
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.db == nil {
		checks["database"] = "not_configured"
	} else if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		allHealthy = false
	} else {
		checks["database"] = "healthy"
	}

	response := HealthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if h.keys != nil {
		response.JWKSCache = h.keys.CacheStats()
	}

	// An empty key cache is not a failure; keys are fetched on first use
	status := utils.StatusSuccess
	httpStatus := http.StatusOK
	response.Status = "healthy"
	if !allHealthy {
		status = utils.StatusError
		httpStatus = http.StatusServiceUnavailable
		response.Status = "unhealthy"
	}

	if err := utils.WriteJSON(w, httpStatus, utils.DataResponse{Status: status, Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
