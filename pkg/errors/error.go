package errors

import (
	"errors"
	"fmt"
)

// Re-exported so callers only need a single errors import.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error extends the builtin error with a category code.
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError carries a category code (see codes.go), an optional machine
// readable reason such as "INVALID_PLAN", and a human readable message.
type AppError struct {
	code    string
	reason  string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

// Reason returns the domain reason, falling back to the category code.
func (e *AppError) Reason() string {
	if e.reason != "" {
		return e.reason
	}
	return e.code
}

// Message returns the message without the wrapped error text.
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates an application error.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// NewReasonError creates an application error with a domain reason.
func NewReasonError(code, reason, message string) *AppError {
	return &AppError{
		code:    code,
		reason:  reason,
		message: message,
	}
}

// Wrap wraps err, keeping the code and reason of an existing AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return &AppError{
			code:    appErr.Code(),
			reason:  appErr.reason,
			message: message,
			err:     err,
		}
	}

	return NewAppError(ErrInternal, message, err)
}

// CodeOf returns the category code of err, or ErrInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}

// ReasonOf returns the domain reason of err, or ErrInternal.
func ReasonOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Reason()
	}
	return ErrInternal
}
