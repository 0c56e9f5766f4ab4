package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError
type Kind int

const (
	KindSystemError Kind = iota
	KindAuthenticationMissing
	KindAuthorizationDenied
	KindNotFound
	KindValidationFailed
	KindStateConflict
)

// Status returns the HTTP status for the kind
func (k Kind) Status() int {
	switch k {
	case KindAuthenticationMissing:
		return http.StatusUnauthorized
	case KindAuthorizationDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindStateConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case KindAuthenticationMissing:
		return "AuthenticationMissing"
	case KindAuthorizationDenied:
		return "AuthorizationDenied"
	case KindNotFound:
		return "NotFound"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindStateConflict:
		return "StateConflict"
	}
	return "SystemError"
}

// AppError is a command failure that translates into a uuAppErrorMap entry.
// Code is the command-relative error code, e.g. "notFound".
type AppError struct {
	Kind     Kind           `json:"-"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	ParamMap map[string]any `json:"paramMap"`
	Cause    error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s [code: %s]: %v", e.Kind.Status(), e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("%d: %s [code: %s]", e.Kind.Status(), e.Message, e.Code)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by kind and code
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return false
}

// Status returns the HTTP status for the error
func (e *AppError) Status() int {
	return e.Kind.Status()
}

// NewError creates an AppError of the given kind
func NewError(kind Kind, code, message string, paramMap map[string]any) *AppError {
	if paramMap == nil {
		paramMap = map[string]any{}
	}
	return &AppError{Kind: kind, Code: code, Message: message, ParamMap: paramMap}
}

// NotFound creates a NotFound error
func NotFound(code, message string, paramMap map[string]any) *AppError {
	return NewError(KindNotFound, code, message, paramMap)
}

// NotAuthorized creates an AuthorizationDenied error with the notAuthorized code
func NotAuthorized(message string, paramMap map[string]any) *AppError {
	return NewError(KindAuthorizationDenied, "notAuthorized", message, paramMap)
}

// Conflict creates a StateConflict error
func Conflict(code, message string, paramMap map[string]any) *AppError {
	return NewError(KindStateConflict, code, message, paramMap)
}

// InvalidDtoIn creates a ValidationFailed error
func InvalidDtoIn(paramMap map[string]any) *AppError {
	return NewError(KindValidationFailed, "invalidDtoIn", "dtoIn is not valid.", paramMap)
}

// Unauthenticated creates an AuthenticationMissing error
func Unauthenticated(message string) *AppError {
	return NewError(KindAuthenticationMissing, "invalidIdentity", message, nil)
}

// SystemError wraps an unexpected failure. The message is opaque; the cause is
// kept for logging only.
func SystemError(cause error) *AppError {
	return &AppError{
		Kind:     KindSystemError,
		Code:     "systemError",
		Message:  "An unexpected error occurred.",
		ParamMap: map[string]any{},
		Cause:    cause,
	}
}

// AsAppError converts any error into an AppError, treating unknown errors as
// system errors
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return SystemError(err)
}
