package util

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DomainError standardizes application errors across services and the HTTP
// layer. Errors carries per-field validation messages when applicable.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Errors     []string
	Timestamp  time.Time
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

// NewDomainError constructs a DomainError stamped with the current time.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Timestamp: time.Now().UTC()}
}

// NewValidationError reports invalid input. details lists every violation.
func NewValidationError(message string, details []string) error {
	err := NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
	err.Errors = details
	return err
}

// NewAuthenticationError reports a failed or missing credential check.
func NewAuthenticationError(message string) error {
	return NewDomainError("AUTHENTICATION_FAILED", message, http.StatusUnauthorized)
}

// NewAuthorizationError reports an authenticated caller lacking permission.
func NewAuthorizationError(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewConflict reports a uniqueness violation.
func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict)
}

// NewInternalError wraps an unexpected error without exposing detail.
func NewInternalError(err error) error {
	de := NewDomainError("INTERNAL_ERROR", "An unexpected error occurred", http.StatusInternalServerError)
	de.Err = err
	return de
}

// ToDomainError converts generic errors to DomainError, defaulting to a
// generic 500 for anything unrecognized.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	de := NewDomainError("INTERNAL_ERROR", "An unexpected error occurred", http.StatusInternalServerError)
	de.Err = err
	return de
}
