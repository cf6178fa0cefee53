// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"testing"
	"time"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/resilience"
)

func fastRetry(attempts int) ClientOption {
	return WithRetry(resilience.DefaultRetryConfig().
		WithMaxAttempts(attempts).
		WithDelay(time.Millisecond))
}

func TestParsePreference(t *testing.T) {
	cases := []struct {
		pref     string
		provider string
		model    string
	}{
		{"openai:gpt-4o-mini", "openai", "gpt-4o-mini"},
		{"anthropic:claude-sonnet-4-20250514", "anthropic", "claude-sonnet-4-20250514"},
		{"gpt-4o", "openai", "gpt-4o"},
		{"", "openai", "gpt-4o-mini"},
	}
	for _, tc := range cases {
		provider, model := ParsePreference(tc.pref)
		if provider != tc.provider || model != tc.model {
			t.Errorf("ParsePreference(%q) = %s, %s; want %s, %s",
				tc.pref, provider, model, tc.provider, tc.model)
		}
	}
}

func TestCompleteTrimsContent(t *testing.T) {
	client := NewClient(&MockProvider{Response: "  a question?  \n"}, "test-model")
	got, err := client.Complete(context.Background(), "sys", "user", 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a question?" {
		t.Errorf("got %q", got)
	}
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	calls := 0
	provider := &MockProvider{
		ChatFunc: func(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
			calls++
			if calls < 3 {
				return nil, errors.New(errors.CodeBackendCall, "flaky", nil)
			}
			return &ChatResponse{Content: "ok"}, nil
		},
	}
	client := NewClient(provider, "test-model", fastRetry(3))

	got, err := client.Complete(context.Background(), "sys", "user", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestCompleteExhaustsRetries(t *testing.T) {
	provider := &FailingMockProvider{}
	client := NewClient(provider, "test-model", fastRetry(3))

	_, err := client.Complete(context.Background(), "sys", "user", 0)
	if errors.CodeOf(err) != errors.CodeBackendCall {
		t.Errorf("expected BACKEND_CALL_FAILED, got %v", err)
	}
}

func TestUnavailableClientShortCircuits(t *testing.T) {
	client := NewUnavailableClient("missing openai api key")

	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), "sys", "user", 0)
		if errors.CodeOf(err) != errors.CodeBackendUnavailable {
			t.Fatalf("call %d: expected BACKEND_UNAVAILABLE, got %v", i, err)
		}
	}
}

func TestCompleteSendsSystemAndUserTurns(t *testing.T) {
	provider := &MockProvider{Response: "x"}
	client := NewClient(provider, "test-model")

	_, err := client.Complete(context.Background(), "be brief", "hello", 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen, ok := provider.LastRequest()
	if !ok {
		t.Fatal("no request captured")
	}
	if len(seen.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(seen.Messages))
	}
	if seen.Messages[0].Role != RoleSystem || seen.Messages[0].Content != "be brief" {
		t.Errorf("system turn = %+v", seen.Messages[0])
	}
	if seen.Messages[1].Role != RoleUser || seen.Messages[1].Content != "hello" {
		t.Errorf("user turn = %+v", seen.Messages[1])
	}
	if seen.Temperature != 0.7 || seen.Model != "test-model" {
		t.Errorf("temperature/model = %v/%s", seen.Temperature, seen.Model)
	}
}

func TestScriptedMockPopsInOrder(t *testing.T) {
	mock := NewScriptedMockProvider("one", "two")
	client := NewClient(mock, "m")

	for _, want := range []string{"one", "two"} {
		got, err := client.Complete(context.Background(), "s", "u", 0)
		if err != nil || got != want {
			t.Errorf("got %q, %v; want %q", got, err, want)
		}
	}
	if _, err := client.Complete(context.Background(), "s", "u", 0); err == nil {
		t.Error("exhausted script should error")
	}
}
