// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New(CodeBackendCall, "openai request failed", cause)

	msg := err.Error()
	if !strings.Contains(msg, "BACKEND_CALL_FAILED") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := New(CodeInternal, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	var typed *Error
	if !stderrors.As(error(err), &typed) {
		t.Error("expected errors.As to match *Error")
	}
}

func TestDefaultRecoverable(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want bool
	}{
		{CodeBackendCall, true},
		{CodeTimeout, true},
		{CodeBackendUnavailable, false},
		{CodeSessionNotFound, false},
		{CodeMalformedResponse, false},
	}
	for _, tc := range cases {
		err := New(tc.code, "x", nil)
		if err.Recoverable != tc.want {
			t.Errorf("code %s: recoverable = %v, want %v", tc.code, err.Recoverable, tc.want)
		}
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeSessionNotFound, 404},
		{CodeInvalidTransition, 400},
		{CodeInvalidInput, 400},
		{CodeBackendUnavailable, 503},
		{CodeInternal, 500},
	}
	for _, tc := range cases {
		if got := New(tc.code, "x", nil).StatusCode; got != tc.want {
			t.Errorf("code %s: status = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(New(CodeSessionNotFound, "x", nil)) != CodeSessionNotFound {
		t.Error("expected typed code")
	}
	if CodeOf(stderrors.New("plain")) != CodeInternal {
		t.Error("expected CodeInternal for untyped error")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CodeBackendCall, "x", nil).
		WithContext("attempt", 2).
		WithContext("provider", "openai")

	if err.Context["attempt"] != 2 {
		t.Errorf("context attempt = %v", err.Context["attempt"])
	}
	if err.Context["provider"] != "openai" {
		t.Errorf("context provider = %v", err.Context["provider"])
	}
}
