package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/middleware"
	"github.com/zenidr/todo-cognito-api/services/account"
	"github.com/zenidr/todo-cognito-api/utils"
)

// SignupRequest is the request body for POST /signup
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the request body for POST /login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ConfirmRequest is the request body for POST /confirm
type ConfirmRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// TokensResponse carries the provider tokens issued at login
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountService defines the interface for identity provider operations
type AccountService interface {
	Login(ctx context.Context, username, password string) (*account.Tokens, error)
	Signup(ctx context.Context, username, password, email string) (*account.SignupResult, error)
	Confirm(ctx context.Context, username, code string) error
	Logout(ctx context.Context, accessToken string) error
}

// AccountHandler handles signup, login, confirmation, and logout requests
type AccountHandler struct {
	accountService AccountService
	logger         *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// HandleSignup handles POST /signup
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	var req SignupRequest
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

	result, err := h.accountService.Signup(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		HandleAccountError(w, err, h.logger)
		return
	}

	h.logger.Info("user signed up",
		zap.String("request_id", requestID),
		zap.String("username", req.Username),
		zap.Bool("confirmed", result.UserConfirmed))

	// Pools with auto-verification skip the confirmation step entirely
	message := "User requires confirmation. Check email for a verification code."
	if result.UserConfirmed {
		message = "User is confirmed and ready to use."
	}
	_ = utils.WriteSuccess(w, http.StatusCreated, message)
}

// HandleLogin handles POST /login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	var req LoginRequest
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

	tokens, err := h.accountService.Login(ctx, req.Username, req.Password)
	if err != nil {
		HandleAccountError(w, err, h.logger)
		return
	}

	h.logger.Info("user logged in",
		zap.String("request_id", requestID),
		zap.String("username", req.Username))

	_ = utils.WriteData(w, http.StatusOK, TokensResponse{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// HandleConfirm handles POST /confirm
func (h *AccountHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	var req ConfirmRequest
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

	if err := h.accountService.Confirm(ctx, req.Username, req.ConfirmationCode); err != nil {
		HandleAccountError(w, err, h.logger)
		return
	}

	h.logger.Info("user confirmed",
		zap.String("request_id", requestID),
		zap.String("username", req.Username))

	_ = utils.WriteSuccess(w, http.StatusOK, "User is confirmed and ready to use.")
}

// HandleLogout handles POST /logout
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimiddleware.GetReqID(ctx)

	token := middleware.RawTokenFromContext(ctx)
	if token == "" {
		h.logger.Error("missing raw token in context")
		_ = utils.WriteUnauthorized(w)
		return
	}

	if err := h.accountService.Logout(ctx, token); err != nil {
		HandleAccountError(w, err, h.logger)
		return
	}

	h.logger.Info("user logged out", zap.String("request_id", requestID))

	_ = utils.WriteSuccess(w, http.StatusOK, "User has been signed out.")
}
