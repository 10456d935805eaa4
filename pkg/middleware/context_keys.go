// Package middleware holds shared context keys used by the HTTP middleware chain.
package middleware

// ContextKey is the type used for request-scoped context values.
type ContextKey string

const (
	// RequestIDKey is the context key for the request correlation ID.
	RequestIDKey ContextKey = "request_id"
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey ContextKey = "user_id"
)
