// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestConfigureSlogFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "info", "json")
	logger.Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output missing message: %s", buf.String())
	}

	buf.Reset()
	logger = ConfigureSlog(&buf, "warn", "text")
	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info should be suppressed at warn level: %s", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn output missing: %s", buf.String())
	}
}

func TestInitNoneExporter(t *testing.T) {
	shutdown, err := Init("parley-test", "0.0.1", Config{Exporter: "none"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown failed: %v", err)
	}
}

func TestInitUnknownExporter(t *testing.T) {
	if _, err := Init("parley-test", "0.0.1", Config{Exporter: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown exporter")
	}
}

func TestInterviewMetricsNoopSafe(t *testing.T) {
	m, err := NewInterviewMetrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.SessionStarted(ctx)
	m.RoundCompleted(ctx)
	m.FallbackUsed(ctx, "evaluator")
	m.ObserveRoleLatency(ctx, "interviewer", 12*time.Millisecond)

	// Nil receiver is tolerated so callers need no guards.
	var nilMetrics *InterviewMetrics
	nilMetrics.SessionStarted(ctx)
	nilMetrics.RoundCompleted(ctx)
}
