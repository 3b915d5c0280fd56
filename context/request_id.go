// Package context provides request-ID helpers so every tool call can
// be traced through the logs.
package context

import (
	stdctx "context"

	"github.com/google/uuid"
	"github.com/skyquery/skyquery/log"
)

// NewRequestID generates a unique request ID.
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID attaches a request ID to the context under the key the
// log package reads.
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, log.RequestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID, empty if absent.
func RequestIDFromContext(ctx stdctx.Context) string {
	if requestID, ok := ctx.Value(log.RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
