// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/pkg/message"
)

const hintsSystem = "You are a helpful interview coach. Based on the feedback and topic, give ONE short hint (<=20 words) " +
	"that nudges the candidate toward a stronger answer. Do NOT reveal the full answer."

const maxHintLen = 140

const fallbackHint = "Be specific: cite an example, metrics, and tradeoffs."

// Hints turns an evaluation into one short coaching nudge. Purely advisory:
// it reads the evaluation, never touches the session, and always produces a
// hint when given an EVALUATION message.
type Hints struct {
	base
}

// NewHints creates the hint role backed by the given completer.
func NewHints(completer llm.Completer, opts ...Option) *Hints {
	return &Hints{base: newBase(NameHints, completer, opts...)}
}

// Handle answers EVALUATION messages with a HINT message of at most 140
// characters.
func (r *Hints) Handle(ctx context.Context, msg *message.Message, session *interview.Session) (*message.Message, error) {
	eval, ok := msg.EvaluationResult()
	if !ok {
		return nil, nil
	}

	topic := msg.Topic
	if topic == "" {
		topic = "General"
		if current := session.Plan.Current(); current != nil {
			topic = current.Topic.Name
		}
	}

	prompt := fmt.Sprintf("Topic: %s\nFeedback: %s\nStrengths: %s\nImprovements: %s\nReturn ONE hint only.",
		topic, msg.Content,
		strings.Join(eval.Strengths, ", "),
		strings.Join(eval.Improvements, ", "))

	hint, err := r.llm.Complete(ctx, hintsSystem, prompt, defaultTemperature)
	hint = strings.TrimSpace(hint)
	if err != nil || hint == "" {
		if err != nil {
			r.fallbackUsed(ctx, err)
		}
		hint = fallbackHint
	}
	// Truncate on rune boundaries so multibyte hints stay valid UTF-8.
	if runes := []rune(hint); len(runes) > maxHintLen {
		hint = string(runes[:maxHintLen-3]) + "..."
	}

	return message.New(r.name, msg.Sender, message.KindHint, hint,
		message.WithTopic(topic)), nil
}
