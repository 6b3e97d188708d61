package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Detach returns middleware that keeps the request context's values but drops
// its cancellation, so a page action started by a browser that then navigates
// away still runs to completion. Use Deadline after it to bound the work.
func Detach() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithoutCancel(c.Request.Context()))
		c.Next()
	}
}

// Deadline returns middleware that only sets the context deadline.
// Handlers must check ctx.Done() and handle timeout themselves.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
