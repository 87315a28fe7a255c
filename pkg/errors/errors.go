// Package errors defines the application error type shared by every layer of
// the service. An AppError carries a typed ErrorCode that the HTTP layer maps
// to a status code, plus an optional detail string and wrapped cause.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const stackDepth = 32

func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the structured error returned across package boundaries.
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is safe to return to API callers.
	Message string

	// Detail carries supplementary context such as entity ids.
	Detail string

	// Cause is the underlying error, reachable through errors.Is / errors.As.
	Cause error

	// Stack is captured by New and Wrap. It is not part of Error().
	Stack string
}

func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of e carrying detail.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of e wrapping err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with fmt-style formatting of the message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap wraps err with a code and message. It returns nil when err is nil.
// Passing CodeUnknown keeps the code of an AppError already in the chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		} else {
			code = CodeInternal
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any AppError in the chain of err carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		switch ae.Code {
		case ErrCodeNotFound, ErrCodeSessionNotFound, ErrCodeResultsNotFound:
			return true
		}
		err = ae.Cause
	}
	return false
}

// GetCode returns the code of the outermost AppError in the chain.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Is and As re-export the standard library helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message, Stack: captureStack(1)}
}

func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Stack: captureStack(1)}
}

func ConfigMissing(setting string) *AppError {
	return &AppError{
		Code:    ErrCodeConfigMissing,
		Message: fmt.Sprintf("missing required configuration: %s", setting),
		Detail:  setting,
		Stack:   captureStack(1),
	}
}
