package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates an entity failed its declared field rules
	ValidationError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match the sentinel errors
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("invalid configuration")
)

// ConflictError is a uniqueness constraint violation. The write was rejected
// and nothing was stored.
type ConflictError struct {
	Message      string   // Human-readable error message
	ResourceType string   // Entity kind (user, activity_log, ...)
	ResourceID   string   // ID of the existing/conflicting record, empty if unknown
	Fields       []string // Constrained fields of the violated clause, if known
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError builds a ConflictError for a record of the given kind
func NewConflictError(kind, existingID string, fields ...string) *ConflictError {
	msg := fmt.Sprintf("%s violates a uniqueness constraint", kind)
	if len(fields) > 0 {
		msg = fmt.Sprintf("%s with the same %s already exists", kind, strings.Join(fields, ", "))
	}
	return &ConflictError{
		Message:      msg,
		ResourceType: kind,
		ResourceID:   existingID,
		Fields:       fields,
	}
}

// ConfigurationError reports a malformed constraint descriptor or other
// startup misconfiguration. It is not recoverable at runtime.
type ConfigurationError struct {
	Kind    string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Kind == "" {
		return "configuration: " + e.Message
	}
	return fmt.Sprintf("configuration of %s: %s", e.Kind, e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
