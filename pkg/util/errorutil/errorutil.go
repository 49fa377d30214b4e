package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes shared by the service and transport layers.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodePrecondition        = "PRECONDITION_FAILED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotFound            = "NOT_FOUND"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeStore               = "STORE_ERROR"
	CodeUnsupportedFilter   = "UNSUPPORTED_FILTER"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// Postgres SQLSTATEs that mean another writer holds or raced for the row.
const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgInvalidText          = "22P02"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewPreconditionError reports a business rule that blocks the requested transition.
func NewPreconditionError(message string, details map[string]any) error {
	return NewDomainError(CodePrecondition, message, http.StatusUnprocessableEntity, details)
}

// NewInvalidTransition reports an operation that is not allowed from the current state.
func NewInvalidTransition(state, operation string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot %s a ticket in state %s", operation, state),
		http.StatusConflict,
		map[string]any{"state": state, "operation": operation})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewConcurrencyConflict tells the caller to re-fetch and retry with fresh state.
func NewConcurrencyConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConcurrencyConflict, message, http.StatusConflict, details)
}

// NewStoreError wraps an underlying persistence failure.
func NewStoreError(err error) error {
	return &DomainError{
		Code:       CodeStore,
		Message:    "store operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewUnsupportedFilter(field, operator string) error {
	return NewDomainError(CodeUnsupportedFilter,
		fmt.Sprintf("operator %q is not supported on %s", operator, field),
		http.StatusBadRequest,
		map[string]any{"field": field, "operator": operator})
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// FromStore classifies errors returned by the persistence layer. Domain errors pass
// through untouched.
func FromStore(err error, resource string, details map[string]any) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound(resource, details)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected:
			return NewConcurrencyConflict(resource+" is being modified concurrently", details)
		case pgInvalidText:
			// A malformed UUID cannot match any row.
			return NewNotFound(resource, details)
		}
	}
	return NewStoreError(err)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
