// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	perrors "github.com/parley-ai/parley/pkg/errors"
)

func TestRetrySuccess(t *testing.T) {
	attempts := 0
	config := DefaultRetryConfig().WithDelay(time.Millisecond)
	err := config.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected success, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	config := DefaultRetryConfig().WithMaxAttempts(2).WithDelay(time.Millisecond)
	err := config.Do(context.Background(), func() error {
		attempts++
		return errors.New("always fails")
	})

	if err == nil {
		t.Error("expected error after max attempts")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryNonRecoverableTypedError(t *testing.T) {
	attempts := 0
	config := DefaultRetryConfig().WithDelay(time.Millisecond)
	err := config.Do(context.Background(), func() error {
		attempts++
		return perrors.New(perrors.CodeBackendUnavailable, "no credentials", nil)
	})

	if err == nil {
		t.Error("expected error")
	}
	if attempts != 1 {
		t.Errorf("unavailable backend must not be retried, got %d attempts", attempts)
	}
}

func TestRetryLinearBackoff(t *testing.T) {
	config := DefaultRetryConfig().WithMaxAttempts(3).WithDelay(10 * time.Millisecond)
	start := time.Now()
	_ = config.Do(context.Background(), func() error {
		return errors.New("always fails")
	})
	elapsed := time.Since(start)

	// Delays: 10ms before attempt 2, 20ms before attempt 3.
	if elapsed < 30*time.Millisecond {
		t.Errorf("elapsed %v, want >= 30ms of linear backoff", elapsed)
	}
}

func TestRetryContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := DefaultRetryConfig().WithDelay(100 * time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := config.Do(ctx, func() error {
		return errors.New("transient error")
	})

	if perrors.CodeOf(err) != perrors.CodeTimeout {
		t.Errorf("expected timeout code on cancellation, got %v", err)
	}
}

func TestWithFallbackPrimarySucceeds(t *testing.T) {
	got, err := WithFallback(context.Background(),
		func() (string, error) { return "primary", nil },
		StaticFallback[string]{Value: "fallback"},
	)
	if err != nil || got != "primary" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestWithFallbackPrimaryFails(t *testing.T) {
	primaryErr := errors.New("boom")
	var seen error
	got, err := WithFallback(context.Background(),
		func() (string, error) { return "", primaryErr },
		FallbackFunc[string](func(_ context.Context, e error) (string, error) {
			seen = e
			return "fallback", nil
		}),
	)
	if err != nil || got != "fallback" {
		t.Errorf("got %q, %v", got, err)
	}
	if seen != primaryErr {
		t.Error("fallback must receive the primary error")
	}
}

func TestWithTimeoutResult(t *testing.T) {
	_, err := WithTimeoutResult(context.Background(), 10*time.Millisecond, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(time.Second):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	if perrors.CodeOf(err) != perrors.CodeTimeout {
		t.Errorf("expected timeout, got %v", err)
	}

	got, err := WithTimeoutResult(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "fast", nil
	})
	if err != nil || got != "fast" {
		t.Errorf("got %q, %v", got, err)
	}
}
