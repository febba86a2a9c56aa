// Package errors carries the service error taxonomy. Services return *AppError
// values (usually the sentinels in domain_errors.go); handlers map Code to an
// HTTP status and Message to the response body.
package errors

import (
	stderrors "errors"
)

// AppError is a classified failure with a client-facing message. Cause is the
// underlying store error, if any, and stays out of responses.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

func coded(code Code) func(string) error {
	return func(msg string) error { return &AppError{Code: code, Message: msg} }
}

var (
	InvalidArg         = coded(CodeInvalidArgument)
	NotFound           = coded(CodeNotFound)
	AlreadyExists      = coded(CodeAlreadyExists)
	Unauthorized       = coded(CodeUnauthenticated)
	Forbidden          = coded(CodePermissionDenied)
	FailedPrecondition = coded(CodeFailedPrecondition)
)

// Unavailable marks a transient failure; cause is kept for logs and errors.As.
func Unavailable(msg string, cause error) error {
	return &AppError{Code: CodeUnavailable, Message: msg, Cause: cause}
}

// CodeOf returns the code of the first AppError in err's chain, CodeInternal for
// any other non-nil error.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
