package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys shared by every request log line.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
	KeySessionRef    = "session_ref"
)

type loggerKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// SetDefault installs logger as the fallback of FromContext and as the slog
// default.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}

// FromContext returns the logger carried by ctx, or the default one.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return fallback.Load()
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a copy of ctx whose logger carries args.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags the context logger with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyRequestID, id))
}

// WithCorrelationID tags the context logger with the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, id))
}

// WithTraceID tags the context logger with the trace ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyTraceID, id))
}

// WithSessionRef tags the context logger with a non-secret reference to the
// browser session. The session id itself is a credential and never logged.
func WithSessionRef(ctx context.Context, ref string) context.Context {
	return With(ctx, slog.String(KeySessionRef, ref))
}
