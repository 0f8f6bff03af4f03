package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Code extracts the AppError code from anywhere in err's chain, or ""
// for foreign errors.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Common error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Quiz room lifecycle
	ErrCodeInvalidConfig  = "INVALID_CONFIG"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomExpired    = "ROOM_EXPIRED"
	ErrCodeAlreadyStarted = "ALREADY_STARTED"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNoParticipants = "NO_PARTICIPANTS"
	ErrCodeNoResults      = "NO_RESULTS"
	ErrCodeInvalidInvite  = "INVALID_INVITE"
	ErrCodeGatewaySend    = "GATEWAY_SEND_FAILURE"
)
