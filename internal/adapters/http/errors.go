package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Quotes API failures become 502, except a 404 from the API which stays a 404.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *dto.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorResponse(
			dto.ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsValidation(err):
		resp := dto.NewErrorResponse(
			dto.ErrorCodeValidation,
			err.Error(),
		)
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsNetwork(err):
		resp := dto.NewErrorResponse(dto.ErrorCodeUpstream, err.Error())

		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			resp.WithUpstream(&dto.Upstream{
				Operation: netErr.Operation,
				Status:    netErr.StatusCode,
				Detail:    netErr.Detail,
			})
		}

		return http.StatusBadGateway, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.ErrorCodeUnavailable,
			err.Error(),
		)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, dto.NewErrorResponse(
			dto.ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// RespondWithError writes an error response to the gin.Context.
// It maps domain errors to HTTP responses and includes the trace ID if available.
func RespondWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)

	stamp(c, errResp)

	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
			"request_id", errResp.RequestID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors (e.g., validation, bad request) that
// don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message)
	stamp(c, errResp)

	c.JSON(dto.HTTPStatusFromCode(code), errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := dto.NewErrorResponse(dto.ErrorCodeValidation, "request validation failed").
		WithDetails(fieldErrors)
	stamp(c, errResp)

	c.JSON(http.StatusBadRequest, errResp)
}

// stamp copies the request ID and the active span's trace ID into the
// envelope.
func stamp(c *gin.Context, errResp *dto.ErrorResponse) {
	var traceID string
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	errResp.WithIDs(middleware.GetRequestID(c), traceID)
}

// Errors returns middleware that answers with the error envelope when a
// handler attached an error with c.Error and wrote nothing. Bad form or path
// input becomes a 400; other errors are mapped by MapDomainError.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		switch {
		case dto.IsValidationError(err):
			RespondWithValidationErrors(c, dto.ValidationErrors(err))
		case errors.Is(err, dto.ErrBinding):
			RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		default:
			RespondWithError(c, err)
		}
	}
}

// NotFound answers unknown routes with the error envelope.
func NotFound(c *gin.Context) {
	RespondWithErrorCode(c, dto.ErrorCodeNotFound, "route not found")
}
