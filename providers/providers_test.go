// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"testing"

	"github.com/parley-ai/parley/pkg/errors"
)

func TestFromPreferenceMissingKey(t *testing.T) {
	cases := []string{
		"openai:gpt-4o-mini",
		"anthropic:claude-sonnet-4-20250514",
	}
	for _, pref := range cases {
		_, _, err := FromPreference(pref, Credentials{})
		if errors.CodeOf(err) != errors.CodeBackendUnavailable {
			t.Errorf("%s: expected BACKEND_UNAVAILABLE, got %v", pref, err)
		}
	}
}

func TestFromPreferenceUnsupportedProvider(t *testing.T) {
	_, _, err := FromPreference("cohere:command-r", Credentials{OpenAIAPIKey: "k"})
	if errors.CodeOf(err) != errors.CodeBackendUnavailable {
		t.Errorf("expected BACKEND_UNAVAILABLE, got %v", err)
	}
}

func TestFromPreferenceReady(t *testing.T) {
	provider, model, err := FromPreference("openai:gpt-4o-mini", Credentials{OpenAIAPIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("expected provider")
	}
	if model != "gpt-4o-mini" {
		t.Errorf("model = %q", model)
	}
}

func TestNewCompleterPreflightFailureShortCircuits(t *testing.T) {
	client := NewCompleter("openai:gpt-4o-mini", Credentials{})
	_, err := client.Complete(context.Background(), "s", "u", 0)
	if errors.CodeOf(err) != errors.CodeBackendUnavailable {
		t.Errorf("expected BACKEND_UNAVAILABLE, got %v", err)
	}
}
