// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/resilience"
)

// DefaultPreference selects the backend when configuration is silent.
const DefaultPreference = "openai:gpt-4o-mini"

// ParsePreference splits a "provider:model" preference string. A bare model
// name defaults to the openai provider.
func ParsePreference(pref string) (provider, model string) {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		pref = DefaultPreference
	}
	if i := strings.Index(pref, ":"); i >= 0 {
		return pref[:i], pref[i+1:]
	}
	return "openai", pref
}

// Client wraps a Provider with the backend call policy: per-attempt timeout,
// bounded retries with linear backoff, and a cached unavailability verdict
// that short-circuits every call when the backend can never succeed.
type Client struct {
	provider    Provider
	model       string
	retry       resilience.RetryConfig
	timeout     time.Duration
	unavailable *errors.Error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetry sets the retry policy.
func WithRetry(rc resilience.RetryConfig) ClientOption {
	return func(c *Client) { c.retry = rc }
}

// WithTimeout sets the per-attempt wall-clock timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a resilient client over the given provider.
func NewClient(provider Provider, model string, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		model:    model,
		retry:    resilience.DefaultRetryConfig(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewUnavailableClient creates a client whose every call fails immediately
// with BACKEND_UNAVAILABLE. Used when the preflight check (credentials,
// supported provider) fails at startup, so no network attempts are wasted on
// a known-unusable configuration.
func NewUnavailableClient(reason string) *Client {
	return &Client{
		unavailable: errors.New(errors.CodeBackendUnavailable, reason, nil),
	}
}

// Model returns the configured model name, if any.
func (c *Client) Model() string { return c.model }

// Complete implements Completer. Backend failures are retried per the client
// policy; the final failure surfaces as a typed error the calling role
// converts into its deterministic fallback.
func (c *Client) Complete(ctx context.Context, systemPrompt, userContent string, temperature float64) (string, error) {
	if c.unavailable != nil {
		return "", c.unavailable
	}

	req := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userContent},
		},
		Temperature: temperature,
	}

	attempt := 0
	return resilience.DoWithResult(ctx, c.retry, func() (string, error) {
		attempt++
		resp, err := resilience.WithTimeoutResult(ctx, c.timeout, func(ctx context.Context) (*ChatResponse, error) {
			return c.provider.Chat(ctx, req)
		})
		if err != nil {
			slog.Warn("backend request failed",
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"error", err)
			if errors.CodeOf(err) == errors.CodeTimeout {
				return "", err
			}
			return "", errors.New(errors.CodeBackendCall, "backend request failed", err).
				WithContext("attempt", attempt)
		}
		return strings.TrimSpace(resp.Content), nil
	})
}

var _ Completer = (*Client)(nil)
