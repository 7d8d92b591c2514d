// ABOUTME: Request-scoped identity and request ID carried on the context.
// ABOUTME: The user is always taken from the request, never from shared state.
package api

import "context"

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestIDKey
)

// UserHeader names the header carrying the caller's user ID.
const UserHeader = "X-User-ID"

// WithUserID returns ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom returns the user ID stored by WithUserID.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequestIDFrom returns the request ID assigned by the server.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	if id == "" {
		return "unknown"
	}
	return id
}
