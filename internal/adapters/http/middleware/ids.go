// Package middleware provides the Gin middleware chain of the quotes web UI.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one request. It is echoed in the response
	// and forwarded to the quotes API.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties together every request of one user action
	// across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"

	// maxIDLength bounds inbound IDs; longer ones are replaced.
	maxIDLength = 128
)

// idKey keys an ID stored in a context.Context.
type idKey struct{ name string }

// trackedID is one ID carried from the inbound header to the request
// context, the request logger and the response header.
type trackedID struct {
	header string
	key    idKey
	logger func(ctx context.Context, id string) context.Context
}

var (
	requestID = trackedID{
		header: HeaderRequestID,
		key:    idKey{ContextKeyRequestID},
		logger: logging.WithRequestID,
	}
	correlationID = trackedID{
		header: HeaderCorrelationID,
		key:    idKey{ContextKeyCorrelationID},
		logger: logging.WithCorrelationID,
	}
)

// RequestID returns middleware that adopts the X-Request-ID header, or a new
// UUID when it is missing or malformed.
func RequestID() gin.HandlerFunc {
	return requestID.middleware()
}

// CorrelationID returns middleware that adopts the X-Correlation-ID header,
// or a new UUID when this request starts the transaction.
func CorrelationID() gin.HandlerFunc {
	return correlationID.middleware()
}

func (t trackedID) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(t.key.name, id)
		c.Header(t.header, id)

		ctx := context.WithValue(c.Request.Context(), t.key, id)
		c.Request = c.Request.WithContext(t.logger(ctx, id))

		c.Next()
	}
}

// acceptableID reports whether an inbound ID can be logged and forwarded as
// is: non-empty, bounded, and limited to letters, digits and "-_.:".
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_.:", r):
		default:
			return false
		}
	}

	return true
}

// GetRequestID returns the request ID of c, or "" before RequestID ran.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID of c, or "" before
// CorrelationID ran.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID stored in ctx. The quotes API
// client forwards it.
func RequestIDFromContext(ctx context.Context) string {
	return requestID.from(ctx)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx.
func CorrelationIDFromContext(ctx context.Context) string {
	return correlationID.from(ctx)
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestID.key, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationID.key, id)
}

func (t trackedID) from(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(t.key).(string)

	return id
}
