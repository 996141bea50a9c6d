package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned across package boundaries wraps one of these.
var (
	ErrInput         = errors.New("invalid input")
	ErrExtraction    = errors.New("text extraction failed")
	ErrAuth          = errors.New("unauthorized")
	ErrRemoteService = errors.New("remote service error")
	ErrPersistence   = errors.New("database error")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("conflict")
)

// AppError carries a kind, a user-facing message and the underlying cause.
type AppError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match an AppError against its kind.
func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func New(kind error, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

func Input(message string) error {
	return New(ErrInput, message, nil)
}

func Extraction(cause error) error {
	return New(ErrExtraction, "Failed to parse PDF", cause)
}

func Auth(message string) error {
	return New(ErrAuth, message, nil)
}

func RemoteService(message string, cause error) error {
	return New(ErrRemoteService, message, cause)
}

func Persistence(message string, cause error) error {
	return New(ErrPersistence, message, cause)
}

func NotFound(message string) error {
	return New(ErrNotFound, message, nil)
}

func Conflict(message string, cause error) error {
	return New(ErrConflict, message, cause)
}

// StatusCode maps an error to the HTTP status reported to the caller.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the single human-readable message for err.
// Extraction errors keep the parser message since that is what the user can act on.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == ErrExtraction && appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return err.Error()
}
