// Package apperror defines the application error model shared by services,
// repositories and the HTTP layer. Errors carry a stable machine-readable
// code, a human message, optional structured details and an HTTP status
// that the transport layer maps directly to a response.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes (machine-readable, stable across releases).
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeStaleSnapshot          = "STALE_SNAPSHOT"
	CodeContention             = "CONTENTION"
	CodeNotFound               = "NOT_FOUND"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInternal               = "INTERNAL_ERROR"
)

// AppError is the application error type.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Retryable  bool           `json:"retryable,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail attaches a structured detail and returns the same error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidation reports a malformed or incomplete request.
func NewValidation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// NewValidationFailed reports a domain validation rule rejecting a document.
// The rule name is attached as a detail so clients can map it to a field.
func NewValidationFailed(rule, message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusUnprocessableEntity).
		WithDetail("rule", rule)
}

// NewInvalidTransition reports a workflow transition not permitted from the
// document's current status.
func NewInvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition,
		fmt.Sprintf("transition from %q to %q is not allowed", from, to),
		http.StatusUnprocessableEntity).
		WithDetail("from", from).
		WithDetail("to", to)
}

// NewInsufficientStock reports that completing a document would drive a
// stock level negative. Quantities are reported in display form.
func NewInsufficientStock(productID, warehouseID, requested, available string) *AppError {
	return New(CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for product %s: requested %s, available %s",
			productID, requested, available),
		http.StatusUnprocessableEntity).
		WithDetail("product_id", productID).
		WithDetail("warehouse_id", warehouseID).
		WithDetail("requested", requested).
		WithDetail("available", available)
}

// NewStaleSnapshot reports that an adjustment's recorded system quantity no
// longer matches the live stock level. The client should refresh and retry.
func NewStaleSnapshot(productID, warehouseID string) *AppError {
	return New(CodeStaleSnapshot,
		"recorded system quantity no longer matches current stock, refresh and retry",
		http.StatusConflict).
		WithDetail("product_id", productID).
		WithDetail("warehouse_id", warehouseID)
}

// NewContention reports a lock acquisition timeout on stock rows. The
// operation left no partial effects and may be retried as-is.
func NewContention(message string) *AppError {
	e := New(CodeContention, message, http.StatusConflict)
	e.Retryable = true
	return e
}

func NewNotFound(entity string, id any) *AppError {
	return New(CodeNotFound,
		fmt.Sprintf("%s not found: %v", entity, id),
		http.StatusNotFound)
}

func NewDuplicate(entity, field string) *AppError {
	return New(CodeDuplicate,
		fmt.Sprintf("%s with this %s already exists", entity, field),
		http.StatusConflict)
}

// NewConcurrentModification reports an optimistic version conflict.
func NewConcurrentModification(entity string, id any) *AppError {
	return New(CodeConcurrentModification,
		fmt.Sprintf("%s %v was modified by another request", entity, id),
		http.StatusConflict)
}

func NewUnauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewInternal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError).WithCause(err)
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError reports whether err carries an *AppError anywhere in its chain.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }

// IsRetryable reports whether the failed operation may be retried without
// modification. Only contention errors qualify.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

// GetHTTPStatus returns the HTTP status for an error, defaulting to 500.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
