package acl

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// ErrorResponse is the error body of the quotes API.
//
// Detail is a plain string for HTTPException errors ({"detail": "Quote not
// found"}) and a list of field errors for request validation failures
// ({"detail": [{"loc": ["body", "text"], "msg": "field required"}]}).
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// FieldError is one entry of a validation error detail list.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field returns the last element of Loc as the offending field name.
func (f *FieldError) Field() string {
	if len(f.Loc) == 0 {
		return ""
	}

	if s, ok := f.Loc[len(f.Loc)-1].(string); ok {
		return s
	}

	return ""
}

// Message flattens Detail into a single line. Returns "" when Detail is absent
// or has an unknown shape.
func (e *ErrorResponse) Message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(e.Detail, &text); err == nil {
		return text
	}

	var fields []FieldError
	if err := json.Unmarshal(e.Detail, &fields); err != nil {
		return ""
	}

	parts := make([]string, 0, len(fields))
	for i := range fields {
		if name := fields[i].Field(); name != "" {
			parts = append(parts, name+": "+fields[i].Msg)
		} else if fields[i].Msg != "" {
			parts = append(parts, fields[i].Msg)
		}
	}

	return strings.Join(parts, "; ")
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty, not JSON, or carries no detail.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.Message() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed quotes API call to a *domain.NetworkError.
//
// clientErr is set when no response was received; it becomes a transport
// error, keeping circuit breaker and retry sentinels reachable through
// errors.Is. Otherwise resp must be a non-2xx response; its body is read for
// the API detail.
func MapHTTPError(resp *http.Response, clientErr error, operation string) error {
	if clientErr != nil {
		return domain.NewTransportError(operation, clientErr)
	}

	if resp == nil {
		return domain.NewTransportError(operation, errors.New("no response received"))
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var detail string
	if resp.Body != nil {
		if errResp := ParseErrorResponse(resp.Body); errResp != nil {
			detail = errResp.Message()
		}
	}

	return domain.NewStatusError(operation, resp.StatusCode, detail)
}

// IsCircuitOpen reports whether err was caused by an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, clients.ErrCircuitOpen)
}
