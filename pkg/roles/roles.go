// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package roles implements the four interview role handlers: question
// generation, evaluation, depth control, and hints. Every role is a closed
// boundary: backend and parse failures convert to deterministic fallbacks
// inside the role, so the round controller never sees an error from the
// shipped handlers.
package roles

import (
	"context"
	"log/slog"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/pkg/message"
	"github.com/parley-ai/parley/pkg/telemetry"
)

// Well-known participant names used in message envelopes.
const (
	NameOrchestrator = "orchestrator"
	NameInterviewer  = "interviewer"
	NameEvaluator    = "evaluator"
	NameTopicManager = "topic_manager"
	NameHints        = "hints"
)

// defaultTemperature keeps role output conservative and repeatable.
const defaultTemperature = 0.2

// Topic-progression decisions returned by the depth-control role.
const (
	ActionStay   = "stay"
	ActionDeepen = "deepen"
	ActionNext   = "next"
)

// Role is a message handler. Handle returns (nil, nil) when the message kind
// is not for this role. The shipped roles never return an error; the error
// slot exists for custom roles with real contract violations to report.
type Role interface {
	Name() string
	Handle(ctx context.Context, msg *message.Message, session *interview.Session) (*message.Message, error)
}

// base carries what every role needs: its name, the backend completer, and
// optional observability hooks.
type base struct {
	name    string
	llm     llm.Completer
	metrics *telemetry.InterviewMetrics
	logger  *slog.Logger
}

func newBase(name string, completer llm.Completer, opts ...Option) base {
	b := base{
		name:   name,
		llm:    completer,
		logger: slog.Default().With("role", name),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Name implements Role.
func (b *base) Name() string { return b.name }

func (b *base) fallbackUsed(ctx context.Context, reason error) {
	b.logger.Info("using deterministic fallback", "reason", reason)
	b.metrics.FallbackUsed(ctx, b.name)
}

// Option configures a role at construction time.
type Option func(*base)

// WithMetrics attaches interview metrics to the role.
func WithMetrics(m *telemetry.InterviewMetrics) Option {
	return func(b *base) { b.metrics = m }
}

// WithLogger overrides the role's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}
