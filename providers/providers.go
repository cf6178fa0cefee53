// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package providers selects and preflights a vendor LLM provider from a
// "provider:model" preference string.
package providers

import (
	"fmt"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/providers/anthropic"
	"github.com/parley-ai/parley/providers/openai"
)

// Credentials holds the per-vendor API keys read from configuration.
type Credentials struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// FromPreference resolves a preference string into a ready provider and model
// name. A missing credential or an unsupported provider name is reported as
// BACKEND_UNAVAILABLE so callers can construct an unavailable client and
// avoid per-call network attempts.
func FromPreference(pref string, creds Credentials) (llm.Provider, string, error) {
	name, model := llm.ParsePreference(pref)

	switch name {
	case "openai":
		if creds.OpenAIAPIKey == "" {
			return nil, model, errors.New(errors.CodeBackendUnavailable, "missing openai api key", nil)
		}
		return openai.NewWithAPIKey(creds.OpenAIAPIKey, openai.WithModel(model)), model, nil
	case "anthropic":
		if creds.AnthropicAPIKey == "" {
			return nil, model, errors.New(errors.CodeBackendUnavailable, "missing anthropic api key", nil)
		}
		return anthropic.NewWithAPIKey(creds.AnthropicAPIKey, anthropic.WithModel(model)), model, nil
	default:
		return nil, model, errors.New(errors.CodeBackendUnavailable,
			fmt.Sprintf("unsupported provider %q", name), nil)
	}
}

// NewCompleter builds the resilient client for the given preference, falling
// back to an always-unavailable client when the preflight fails. The error
// reason is preserved inside the client; this function never fails.
func NewCompleter(pref string, creds Credentials, opts ...llm.ClientOption) *llm.Client {
	provider, model, err := FromPreference(pref, creds)
	if err != nil {
		return llm.NewUnavailableClient(err.Error())
	}
	return llm.NewClient(provider, model, opts...)
}
