// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrNetwork indicates a quotes API call failed in transport or
	// returned a non-2xx status.
	ErrNetwork = errors.New("network error")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// NetworkError is returned by the quotes API client when a request could not
// be completed (Err set) or completed with a non-2xx status (StatusCode set).
//
// It matches ErrNetwork, and additionally ErrNotFound when the status is 404.
type NetworkError struct {
	// Operation describes the failed call, e.g. "fetch quotes".
	Operation string

	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int

	// Detail is the error message reported by the API, if any.
	Detail string

	// Err is the transport error, nil for status failures.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("failed to %s: %d (%s)", e.Operation, e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("failed to %s: %d", e.Operation, e.StatusCode)
	}
}

// Unwrap returns the transport error, if any.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNetwork, or ErrNotFound for a 404.
func (e *NetworkError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// NewStatusError creates a NetworkError for a non-2xx response.
func NewStatusError(operation string, status int, detail string) error {
	return &NetworkError{Operation: operation, StatusCode: status, Detail: detail}
}

// NewTransportError creates a NetworkError for a request that never produced a response.
func NewTransportError(operation string, err error) error {
	return &NetworkError{Operation: operation, Err: err}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNetwork checks if an error is a quotes API network error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
