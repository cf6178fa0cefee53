// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for Parley.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Parley errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeBackendUnavailable indicates the text-generation backend cannot be
	// used at all (missing credentials or unsupported provider). Detected once
	// at client construction and cached for the client's lifetime.
	CodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"

	// CodeBackendCall indicates a single backend attempt failed (network,
	// timeout, upstream error). Retriable.
	CodeBackendCall ErrorCode = "BACKEND_CALL_FAILED"

	// CodeMalformedResponse indicates backend output could not be parsed into
	// the expected structured shape.
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// CodeSessionNotFound indicates a caller referenced an unknown session id.
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// CodeInvalidTransition indicates an operation was requested on a plan that
	// cannot accept it (e.g. next-question on a finished plan).
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"
)

// Error is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type Error struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	StatusCode  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new Error with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:        code,
		Message:     msg,
		Err:         cause,
		Context:     make(map[string]interface{}),
		Recoverable: code == CodeBackendCall || code == CodeTimeout,
		StatusCode:  codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

// AsError attempts to convert an error to a typed Error.
// Returns the error as *Error if it is one, or wraps it otherwise.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the code of err, or CodeInternal for untyped errors.
func CodeOf(err error) ErrorCode {
	if pe, ok := err.(*Error); ok {
		return pe.Code
	}
	return CodeInternal
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeSessionNotFound:
		return 404
	case CodeInvalidInput, CodeInvalidTransition:
		return 400
	case CodeTimeout:
		return 408
	case CodeBackendUnavailable:
		return 503
	default:
		return 500
	}
}
