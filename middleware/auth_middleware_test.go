package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/cognito"
)

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*cognito.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cognito.Identity), args.Error(1)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	logger := zap.NewNop()

	okHandler := func(onRequest func(r *http.Request)) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if onRequest != nil {
				onRequest(r)
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid bearer token allows request", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		identity := &cognito.Identity{
			Sub:      uuid.New(),
			Username: "testuser",
			TokenUse: "access",
		}
		mockVerifier.On("Verify", mock.Anything, "valid-token").Return(identity, nil)

		handler := authMiddleware.RequireAuth(okHandler(func(r *http.Request) {
			got := IdentityFromContext(r.Context())
			require.NotNil(t, got)
			assert.Equal(t, identity.Sub, got.Sub)
			assert.Equal(t, "testuser", got.Username)
			assert.Equal(t, "valid-token", RawTokenFromContext(r.Context()))
		}))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVerifier.AssertExpectations(t)
	})

	t.Run("missing header rejects without calling verifier", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		handler := authMiddleware.RequireAuth(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("blank header rejects without calling verifier", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		handler := authMiddleware.RequireAuth(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "   ")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("verifier failure rejects with the same body as a missing header", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		mockVerifier.On("Verify", mock.Anything, "bad-token").
			Return(nil, errors.New("bad token signature"))

		handler := authMiddleware.RequireAuth(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "unauthorized", body["message"])

		// Missing-header rejection carries the identical body
		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/todos", nil))
		assert.Equal(t, w.Body.String(), w2.Body.String())
	})

	t.Run("bare token without scheme is accepted", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		identity := &cognito.Identity{Sub: uuid.New(), Username: "testuser"}
		mockVerifier.On("Verify", mock.Anything, "raw-token-value").Return(identity, nil)

		handler := authMiddleware.RequireAuth(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "raw-token-value")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVerifier.AssertExpectations(t)
	})

	t.Run("scheme is matched case-insensitively", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		authMiddleware := NewAuthMiddleware(mockVerifier, logger)

		identity := &cognito.Identity{Sub: uuid.New(), Username: "testuser"}
		mockVerifier.On("Verify", mock.Anything, "some-token").Return(identity, nil)

		handler := authMiddleware.RequireAuth(okHandler(nil))

		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "bearer some-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVerifier.AssertExpectations(t)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "standard bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "uppercase scheme", header: "BEARER abc", want: "abc"},
		{name: "extra spaces around token", header: "Bearer   abc  ", want: "abc"},
		{name: "bare token", header: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "other scheme passed through as bare value", header: "Basic creds", want: "Basic creds"},
		{name: "empty header", header: "", wantErr: true},
		{name: "whitespace header", header: "   ", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "scheme with no token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	assert.Nil(t, IdentityFromContext(context.Background()))
	assert.Empty(t, RawTokenFromContext(context.Background()))
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestLogger(zap.NewNop()))
	r.Use(Metrics())
	r.Get("/todos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/todos/7", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
