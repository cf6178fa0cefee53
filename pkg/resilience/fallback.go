// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package resilience

import "context"

// FallbackStrategy defines the behavior when a primary operation fails.
type FallbackStrategy[T any] interface {
	// Execute runs the fallback operation.
	Execute(ctx context.Context, primaryErr error) (T, error)
}

// FallbackFunc wraps a function as a FallbackStrategy.
type FallbackFunc[T any] func(ctx context.Context, primaryErr error) (T, error)

// Execute implements FallbackStrategy.
func (f FallbackFunc[T]) Execute(ctx context.Context, err error) (T, error) {
	return f(ctx, err)
}

// StaticFallback returns a fixed value on failure.
type StaticFallback[T any] struct {
	Value T
}

// Execute implements FallbackStrategy.
func (s StaticFallback[T]) Execute(_ context.Context, _ error) (T, error) {
	return s.Value, nil
}

// WithFallback executes fn and, on error, the fallback strategy. The fallback
// is an explicit, testable branch rather than a swallowed exception: callers
// see exactly which path produced the value.
func WithFallback[T any](ctx context.Context, fn func() (T, error), fallback FallbackStrategy[T]) (T, error) {
	value, err := fn()
	if err == nil {
		return value, nil
	}
	return fallback.Execute(ctx, err)
}
