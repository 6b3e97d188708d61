// Package dto holds the JSON and form shapes of the web UI: the error
// envelope and the bound inputs of page actions.
package dto

import "net/http"

// Error codes of the envelope.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeUpstream    = "UPSTREAM_ERROR"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	ErrorCodeNotFound:    http.StatusNotFound,
	ErrorCodeValidation:  http.StatusBadRequest,
	ErrorCodeBadRequest:  http.StatusBadRequest,
	ErrorCodeUpstream:    http.StatusBadGateway,
	ErrorCodeUnavailable: http.StatusServiceUnavailable,
	ErrorCodeTimeout:     http.StatusGatewayTimeout,
}

// ErrorResponse is the envelope of every JSON error the UI returns.
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
	TraceID   string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Details maps form fields to their validation messages.
	Details map[string]string `json:"details,omitempty"`

	// Upstream is set when the quotes API caused the failure.
	Upstream *Upstream `json:"upstream,omitempty"`
}

// Upstream reports what the quotes API answered.
type Upstream struct {
	Operation string `json:"operation"`
	// Status is zero when the API could not be reached.
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewErrorResponse returns an envelope with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// WithDetails attaches field messages.
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	e.Error.Details = details
	return e
}

// WithUpstream attaches the quotes API answer.
func (e *ErrorResponse) WithUpstream(u *Upstream) *ErrorResponse {
	e.Error.Upstream = u
	return e
}

// WithIDs stamps the request and trace IDs. Empty values are left out of the
// JSON.
func (e *ErrorResponse) WithIDs(requestID, traceID string) *ErrorResponse {
	e.RequestID = requestID
	e.TraceID = traceID

	return e
}

// HTTPStatusFromCode returns the status for an error code. Unknown codes are
// 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
