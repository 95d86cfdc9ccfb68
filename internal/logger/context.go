package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID stores a request-scoped logger carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	log := Get().With(slog.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the request-scoped logger, or the process logger
// when none is attached.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return Get()
}
