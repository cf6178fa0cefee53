// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InterviewMetrics tracks session throughput, role latency, and backend
// degradation for production monitoring. All instruments come from the global
// meter provider, so with the "none" exporter every call is a cheap no-op.
type InterviewMetrics struct {
	sessionsStarted metric.Int64Counter
	roundsCompleted metric.Int64Counter
	fallbacksUsed   metric.Int64Counter
	roleLatency     metric.Float64Histogram
}

// NewInterviewMetrics creates the interview instrument set.
func NewInterviewMetrics() (*InterviewMetrics, error) {
	meter := otel.Meter("parley/interview")

	sessionsStarted, err := meter.Int64Counter(
		"parley.sessions.started",
		metric.WithDescription("Interview sessions started"),
	)
	if err != nil {
		return nil, err
	}

	roundsCompleted, err := meter.Int64Counter(
		"parley.rounds.completed",
		metric.WithDescription("Question/answer rounds completed"),
	)
	if err != nil {
		return nil, err
	}

	fallbacksUsed, err := meter.Int64Counter(
		"parley.fallbacks.used",
		metric.WithDescription("Deterministic fallbacks substituted for backend output, by role"),
	)
	if err != nil {
		return nil, err
	}

	roleLatency, err := meter.Float64Histogram(
		"parley.role.duration",
		metric.WithDescription("Role handler latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &InterviewMetrics{
		sessionsStarted: sessionsStarted,
		roundsCompleted: roundsCompleted,
		fallbacksUsed:   fallbacksUsed,
		roleLatency:     roleLatency,
	}, nil
}

// SessionStarted increments the session counter.
func (m *InterviewMetrics) SessionStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsStarted.Add(ctx, 1)
}

// RoundCompleted increments the round counter.
func (m *InterviewMetrics) RoundCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.roundsCompleted.Add(ctx, 1)
}

// FallbackUsed records that the named role substituted its deterministic
// fallback for backend output.
func (m *InterviewMetrics) FallbackUsed(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.fallbacksUsed.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", role)))
}

// ObserveRoleLatency records one role invocation's duration.
func (m *InterviewMetrics) ObserveRoleLatency(ctx context.Context, role string, d time.Duration) {
	if m == nil {
		return
	}
	m.roleLatency.Record(ctx, float64(d.Milliseconds()),
		metric.WithAttributes(attribute.String("role", role)))
}
