package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/cognito"
	"github.com/zenidr/todo-cognito-api/internal/observability"
	"github.com/zenidr/todo-cognito-api/utils"
)

// TokenVerifier defines the interface for verifying bearer tokens
type TokenVerifier interface {
	// Verify checks the signature and claims of a token and returns the
	// identity it asserts
	Verify(ctx context.Context, token string) (*cognito.Identity, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token. Every
// rejection gets the same 401 body; the reason only reaches the debug log.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		// A request without a header is rejected before the verifier runs
		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			observability.AuthOutcomesTotal.WithLabelValues("missing_token").Inc()
			m.logger.Debug("missing bearer token",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w)
			return
		}

		identity, err := m.verifier.Verify(ctx, token)
		if err != nil {
			observability.AuthOutcomesTotal.WithLabelValues("invalid_token").Inc()
			m.logger.Debug("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w)
			return
		}

		observability.AuthOutcomesTotal.WithLabelValues("ok").Inc()

		ctx = WithIdentity(ctx, identity)
		ctx = WithRawToken(ctx, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively, and a bare token without the
// "Bearer" prefix is accepted as well.
func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("authorization header is empty")
	}

	parts := strings.SplitN(header, " ", 2)
	if strings.EqualFold(parts[0], "bearer") {
		if len(parts) != 2 {
			return "", errors.New("bearer scheme without a token")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return "", errors.New("bearer scheme without a token")
		}
		return token, nil
	}

	return header, nil
}
