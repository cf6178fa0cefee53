// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package scenario runs scripted interview sessions: pre-supplied answers,
// no prompts. Used for smoke-testing a deployment end to end.
package scenario

import (
	"context"
	"math"
	"strings"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/orchestrator"
)

// SessionFactory produces a fresh session for each scripted run.
type SessionFactory func() *interview.Session

// Runner drives scripted sessions through an orchestrator.
type Runner struct {
	orch       *orchestrator.Orchestrator
	newSession SessionFactory
}

// NewRunner creates a scripted-session runner.
func NewRunner(orch *orchestrator.Orchestrator, factory SessionFactory) *Runner {
	return &Runner{orch: orch, newSession: factory}
}

// Run plays the answers in order, one round each, stopping early if a round
// reports the session is over. The returned session is finalized.
func (r *Runner) Run(ctx context.Context, answers []string) (*interview.Session, error) {
	session := r.newSession()
	r.orch.StartSession(ctx, session)
	for _, answer := range answers {
		more, err := r.orch.RunScripted(ctx, session, answer)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	session.Finalize()
	return session, nil
}

// Summary condenses a scripted run for reporting.
type Summary struct {
	SessionID    string   `json:"session_id"`
	NumQuestions int      `json:"num_questions"`
	AvgScore     float64  `json:"avg_score"`
	Topics       []string `json:"topics"`
}

// Summarize reports the per-interaction topics and the mean score, rounded
// to two decimals.
func Summarize(s *interview.Session) Summary {
	avg, _ := s.AverageScore()
	topics := make([]string, 0, len(s.Interactions))
	for _, i := range s.Interactions {
		topics = append(topics, i.Topic)
	}
	return Summary{
		SessionID:    s.ID,
		NumQuestions: len(s.Interactions),
		AvgScore:     math.Round(avg*100) / 100,
		Topics:       topics,
	}
}

// RunAll executes the three standard smoke scenarios and returns their
// summaries keyed by name.
func (r *Runner) RunAll(ctx context.Context) (map[string]Summary, error) {
	scenarios := []struct {
		name    string
		answers []string
	}{
		{"happy_path", []string{
			"Discussed scalable Go services with graceful degradation.",
			"Explained event-driven design and tradeoffs.",
			"Outlined consensus models in distributed systems.",
		}},
		{"next_commands", []string{"/next", "/next", "Handled cloud infra with Terraform."}},
		{"empty_and_long", []string{"", strings.Repeat("A", 5000), "/quit"}},
	}

	results := make(map[string]Summary, len(scenarios))
	for _, sc := range scenarios {
		session, err := r.Run(ctx, sc.answers)
		if err != nil {
			return nil, err
		}
		results[sc.name] = Summarize(session)
	}
	return results, nil
}
