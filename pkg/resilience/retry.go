// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package resilience provides retry, timeout, and fallback patterns for the
// backend collaborator boundary.
package resilience

import (
	"context"
	"time"

	"github.com/parley-ai/parley/pkg/errors"
)

// RetryConfig controls retry behavior with linear backoff: the delay before
// attempt n (1-based, n > 1) is (n-1) x Delay.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (must be >= 1).
	MaxAttempts int

	// Delay is the base backoff unit between attempts.
	Delay time.Duration

	// IsRecoverable determines if an error should be retried.
	// If nil, typed errors retry per their Recoverable flag and all other
	// errors are retried.
	IsRecoverable func(error) bool
}

// DefaultRetryConfig returns the backend default: 3 attempts, 500ms linear
// backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		Delay:         500 * time.Millisecond,
		IsRecoverable: isRecoverableDefault,
	}
}

// WithMaxAttempts returns a new config with MaxAttempts set.
func (rc RetryConfig) WithMaxAttempts(max int) RetryConfig {
	rc.MaxAttempts = max
	return rc
}

// WithDelay returns a new config with Delay set.
func (rc RetryConfig) WithDelay(d time.Duration) RetryConfig {
	rc.Delay = d
	return rc
}

// WithIsRecoverable returns a new config with IsRecoverable set.
func (rc RetryConfig) WithIsRecoverable(fn func(error) bool) RetryConfig {
	rc.IsRecoverable = fn
	return rc
}

// Do executes fn with retry logic, returning the last error if all attempts
// fail.
func (rc RetryConfig) Do(ctx context.Context, fn func() error) error {
	if rc.MaxAttempts < 1 {
		rc.MaxAttempts = 1
	}
	if rc.IsRecoverable == nil {
		rc.IsRecoverable = isRecoverableDefault
	}

	var lastErr error
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * rc.Delay
			select {
			case <-ctx.Done():
				return errors.New(errors.CodeTimeout, "context canceled during retry", ctx.Err()).
					WithContext("attempt", attempt).
					WithContext("max_attempts", rc.MaxAttempts)
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !rc.IsRecoverable(err) {
			return err
		}
	}

	return lastErr
}

// DoWithResult executes fn with retry logic, returning both result and error.
func DoWithResult[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var result T
	err := rc.Do(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// isRecoverableDefault retries typed errors per their Recoverable flag and
// generic errors unconditionally.
func isRecoverableDefault(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*errors.Error); ok {
		return pe.Recoverable
	}
	return true
}
