// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/pkg/message"
	"github.com/parley-ai/parley/pkg/resilience"
)

const evaluatorSystem = "You are a strict but fair technical interviewer. Evaluate answers concisely. " +
	"Return strict JSON with keys: score (0-10), brief_feedback (<=40 words), " +
	"strengths (list), improvements (list), follow_up_question (string). " +
	"If score < 8, provide a specific follow_up_question. If score >= 8, follow_up_question should be empty."

// Evaluator grades answers. It is a total function from (question, answer) to
// Evaluation: backend failure yields one fixed heuristic grade, unparseable
// backend output a different one, so callers always receive an EVALUATION
// message.
type Evaluator struct {
	base
}

// NewEvaluator creates the grading role backed by the given completer.
func NewEvaluator(completer llm.Completer, opts ...Option) *Evaluator {
	return &Evaluator{base: newBase(NameEvaluator, completer, opts...)}
}

// Handle answers EVALUATE_RESPONSE messages with an EVALUATION message whose
// Content is the brief feedback and whose payload carries the structured grade.
func (r *Evaluator) Handle(ctx context.Context, msg *message.Message, _ *interview.Session) (*message.Message, error) {
	req, ok := msg.EvaluationRequest()
	if !ok {
		return nil, nil
	}

	prompt := fmt.Sprintf("Question: %s\nAnswer: %s\nTopic: %s\nRespond in JSON only.",
		req.Question, msg.Content, msg.Topic)

	var eval interview.Evaluation
	raw, err := r.llm.Complete(ctx, evaluatorSystem, prompt, defaultTemperature)
	if err != nil {
		r.fallbackUsed(ctx, err)
		eval = backendFallbackEvaluation()
	} else {
		// The fallback strategy never errors, so the combined call is total.
		eval, _ = resilience.WithFallback(ctx,
			func() (interview.Evaluation, error) { return ParseEvaluation(raw) },
			resilience.FallbackFunc[interview.Evaluation](func(ctx context.Context, parseErr error) (interview.Evaluation, error) {
				r.fallbackUsed(ctx, parseErr)
				return parseFallback(raw), nil
			}),
		)
	}

	return message.New(r.name, msg.Sender, message.KindEvaluation, eval.BriefFeedback,
		message.WithTopic(msg.Topic),
		message.WithPayload(message.EvaluationResult{
			Score:            eval.Score,
			Strengths:        eval.Strengths,
			Improvements:     eval.Improvements,
			FollowUpQuestion: eval.FollowUpQuestion,
		})), nil
}

// ParseEvaluation decodes the model's grading output. Models wrap JSON in code
// fences or prose often enough that the parser strips fences and isolates the
// first-"{" to last-"}" span before decoding.
func ParseEvaluation(raw string) (interview.Evaluation, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`\n ")
		text = strings.TrimPrefix(text, "json")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && start < end {
		text = text[start : end+1]
	}

	var decoded struct {
		Score            any      `json:"score"`
		BriefFeedback    string   `json:"brief_feedback"`
		Strengths        []string `json:"strengths"`
		Improvements     []string `json:"improvements"`
		FollowUpQuestion string   `json:"follow_up_question"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return interview.Evaluation{}, errors.New(errors.CodeMalformedResponse, "evaluation output is not valid JSON", err)
	}

	score, err := coerceScore(decoded.Score)
	if err != nil {
		return interview.Evaluation{}, err
	}
	return interview.Evaluation{
		Score:            score,
		BriefFeedback:    decoded.BriefFeedback,
		Strengths:        decoded.Strengths,
		Improvements:     decoded.Improvements,
		FollowUpQuestion: decoded.FollowUpQuestion,
	}, nil
}

// coerceScore accepts the number the prompt asks for, plus the quoted number
// some models return anyway. A missing score decodes as zero.
func coerceScore(v any) (float64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return s, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, errors.New(errors.CodeMalformedResponse, fmt.Sprintf("score %q is not numeric", s), err)
		}
		return f, nil
	default:
		return 0, errors.New(errors.CodeMalformedResponse, fmt.Sprintf("score has unexpected type %T", v), nil)
	}
}

// parseFallback grades a response the parser could not decode: mid-range
// score, the raw text (capped) as feedback.
func parseFallback(raw string) interview.Evaluation {
	feedback := raw
	if feedback == "" {
		feedback = "Needs improvement"
	}
	if len(feedback) > 140 {
		feedback = feedback[:140]
	}
	return interview.Evaluation{
		Score:            5.0,
		BriefFeedback:    feedback,
		Improvements:     []string{"Provide more detail"},
		FollowUpQuestion: "Could you give a concrete example?",
	}
}

// backendFallbackEvaluation grades an answer the backend never saw.
func backendFallbackEvaluation() interview.Evaluation {
	return interview.Evaluation{
		Score:            6.0,
		BriefFeedback:    "Decent answer with room for specifics and tradeoffs.",
		Strengths:        []string{"Clear communication"},
		Improvements:     []string{"Add concrete examples", "Discuss tradeoffs"},
		FollowUpQuestion: "What were the key tradeoffs you considered?",
	}
}
