package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage returns a copy of the domain error carrying a specific message
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
	}
}

// Predefined domain errors
var (
	// Validation errors (400)
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "invalid input")
	ErrPasswordMismatch = NewDomainError("INCORRECT_PASSWORD", "current password is incorrect")

	// Conflict errors (400)
	ErrEmailExists    = NewDomainError("EMAIL_EXISTS", "email already registered")
	ErrUsernameExists = NewDomainError("USERNAME_EXISTS", "username already taken")
	ErrNameExists     = NewDomainError("NAME_EXISTS", "name already exists")

	// Authentication errors (401)
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid refresh token")
	ErrRefreshTokenExpired = NewDomainError("REFRESH_TOKEN_EXPIRED", "refresh token expired")

	// Forbidden errors (403)
	ErrForbidden       = NewDomainError("FORBIDDEN", "access forbidden")
	ErrAccountInactive = NewDomainError("ACCOUNT_INACTIVE", "account is inactive")
	ErrSelfDeletion    = NewDomainError("SELF_DELETION", "users cannot delete themselves")

	// Not found errors (404)
	ErrUserNotFound     = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrServiceNotFound  = NewDomainError("SERVICE_NOT_FOUND", "service not found")
	ErrToolNotFound     = NewDomainError("TOOL_NOT_FOUND", "tool not found")
	ErrResourceNotFound = NewDomainError("NOT_FOUND", "resource not found")

	// Not implemented (501)
	ErrNotImplemented = NewDomainError("NOT_IMPLEMENTED", "functionality not yet available")

	// System errors (500/503)
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "INCORRECT_PASSWORD":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"INVALID_REFRESH_TOKEN", "REFRESH_TOKEN_EXPIRED":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "FORBIDDEN", "ACCOUNT_INACTIVE", "SELF_DELETION":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "SERVICE_NOT_FOUND", "TOOL_NOT_FOUND", "NOT_FOUND":
		return http.StatusNotFound

	// 400 Bad Request (uniqueness conflicts surface with the other
	// client input errors)
	case "EMAIL_EXISTS", "USERNAME_EXISTS", "NAME_EXISTS":
		return http.StatusBadRequest

	// 501 Not Implemented
	case "NOT_IMPLEMENTED":
		return http.StatusNotImplemented

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
