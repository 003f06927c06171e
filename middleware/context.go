package middleware

import (
	"context"

	"github.com/zenidr/todo-cognito-api/cognito"
)

// Context key type to avoid collisions
type contextKey string

const (
	// IdentityKey is the context key for the verified caller identity
	IdentityKey contextKey = "identity"

	// RawTokenKey is the context key for the bearer token as presented.
	// Logout forwards it to Cognito's GlobalSignOut.
	RawTokenKey contextKey = "raw_token"
)

// WithIdentity adds a verified identity to the context
func WithIdentity(ctx context.Context, identity *cognito.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext retrieves the verified identity from context
func IdentityFromContext(ctx context.Context) *cognito.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*cognito.Identity); ok {
			return identity
		}
	}
	return nil
}

// WithRawToken adds the presented bearer token to the context
func WithRawToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, RawTokenKey, token)
}

// RawTokenFromContext retrieves the presented bearer token from context
func RawTokenFromContext(ctx context.Context) string {
	if val := ctx.Value(RawTokenKey); val != nil {
		if token, ok := val.(string); ok {
			return token
		}
	}
	return ""
}
