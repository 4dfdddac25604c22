// internal/model/error.go
package model

import "errors"

// Sentinel errors used across layers; webutil maps them to HTTP codes.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict")

	// ErrMaxActiveJourneys rejects a start that would exceed the per-user
	// cap of non-terminal journeys.
	ErrMaxActiveJourneys = errors.New("max active journeys reached")
	// ErrAlreadyCompleted is the benign loser of a completion race. Handlers
	// turn it into a success-shaped idempotent response, not a failure.
	ErrAlreadyCompleted = errors.New("step already completed")
	// ErrInvalidTransition rejects an illegal journey lifecycle move with no
	// side effects.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// AppError carries a stable code and a user-facing message around a wrapped
// sentinel.
type AppError struct {
	Detail ErrorDetail
	err    error
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		err:    err,
	}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.Detail.Message + ": " + e.err.Error()
	}
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// APIErrorResponse is the JSON error envelope.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
