// Package contextkeys provides centralized context key definitions
//
// All context keys used across the application are defined here. This
// prevents typos, documents dependencies, and makes key usage
// discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// UserIDKey contains the authenticated user id string.
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: middleware.RequireEntitlement, limit checks
	// Type: string
	UserIDKey Key = "user_id"

	// AuthSourceKey records how the user id was established: "session",
	// "bearer", or "header".
	// Set by: middleware.AuthMiddleware
	// Type: string
	AuthSourceKey Key = "auth_source"
)

// WithUserID adds the authenticated user id to the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserID retrieves the authenticated user id, or "" when absent
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// WithAuthSource records the authentication mechanism used
func WithAuthSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, AuthSourceKey, source)
}

// AuthSource retrieves the authentication mechanism, or "" when absent
func AuthSource(ctx context.Context) string {
	if s, ok := ctx.Value(AuthSourceKey).(string); ok {
		return s
	}
	return ""
}
