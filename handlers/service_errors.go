package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/services"
	"github.com/zenidr/todo-cognito-api/utils"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	message := services.GetErrorMessage(err)

	switch {
	case services.IsValidationError(err):
		if err := utils.WriteBadRequest(w, message); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}

	case services.IsNotFoundError(err):
		if err := utils.WriteNotFound(w, message); err != nil {
			logger.Error("failed to write not found response", zap.Error(err))
		}

	case services.IsConflictError(err):
		if err := utils.WriteConflict(w, message); err != nil {
			logger.Error("failed to write conflict response", zap.Error(err))
		}

	case services.IsUnauthorizedError(err):
		if err := utils.WriteUnauthorized(w); err != nil {
			logger.Error("failed to write unauthorized response", zap.Error(err))
		}

	case services.IsExternalError(err):
		logger.Error("upstream provider error", zap.Error(err))
		if err := utils.WriteBadGateway(w, message); err != nil {
			logger.Error("failed to write bad gateway response", zap.Error(err))
		}

	case services.IsInternalError(err):
		// Log the cause but return a generic message
		logger.Error("internal server error", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "internal server error"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if err := utils.WriteInternalServerError(w, "internal server error"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
	}
}

// HandleAccountError maps identity provider outcomes on the account routes
// to HTTP responses. The provider is the authority on these failures, so
// every body carries status "error" whatever the code.
func HandleAccountError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case services.IsValidationError(err):
		status = http.StatusBadRequest
		message = services.GetErrorMessage(err)

	case services.IsNotFoundError(err):
		status = http.StatusNotFound
		message = services.GetErrorMessage(err)

	case services.IsConflictError(err):
		status = http.StatusConflict
		message = services.GetErrorMessage(err)

	case services.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
		message = services.GetErrorMessage(err)

	case services.IsExternalError(err):
		logger.Error("identity provider fault", zap.Error(err))
		status = http.StatusBadGateway
		message = services.GetErrorMessage(err)

	default:
		logger.Error("unhandled account error", zap.Error(err))
	}

	if err := utils.WriteError(w, status, message); err != nil {
		logger.Error("failed to write account error response", zap.Error(err))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		if writeErr := utils.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  utils.StatusFail,
			"message": err.Error(),
			"fields":  fields,
		}); writeErr != nil {
			logger.Error("failed to write validation error response", zap.Error(writeErr))
		}
		return
	}

	if writeErr := utils.WriteBadRequest(w, err.Error()); writeErr != nil {
		logger.Error("failed to write validation error response", zap.Error(writeErr))
	}
}
