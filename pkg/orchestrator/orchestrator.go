// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator runs the per-round control loop that ties the four
// interview roles together: ask, answer, grade, hint, optionally follow up,
// then decide the topic transition.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/message"
	"github.com/parley-ai/parley/pkg/roles"
	"github.com/parley-ai/parley/pkg/telemetry"
)

// AnswerFunc supplies the candidate's answer to the displayed prompt. An
// error means input was cut off (EOF, interrupt) and ends the session.
type AnswerFunc func(prompt string) (string, error)

// Limits bounds the in-round behavior.
type Limits struct {
	// MaxFollowUps caps follow-up exchanges per round.
	MaxFollowUps int
	// RephraseBelow is the score under which the question itself gets
	// restated instead of followed up.
	RephraseBelow float64
	// FollowUpStopAt is the score at which the follow-up loop stops pressing.
	FollowUpStopAt float64
}

// DefaultLimits returns the shipped round limits.
func DefaultLimits() Limits {
	return Limits{MaxFollowUps: 3, RephraseBelow: 4.0, FollowUpStopAt: 8.0}
}

// Orchestrator owns the role handlers for one process and drives sessions
// through rounds. Safe for sequential use per session; sessions are not
// shared across goroutines.
type Orchestrator struct {
	interviewer  roles.Role
	evaluator    roles.Role
	topicManager roles.Role
	hints        roles.Role

	limits   Limits
	reporter Reporter
	metrics  *telemetry.InterviewMetrics
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the event sink for human-facing output.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithMetrics attaches interview metrics.
func WithMetrics(m *telemetry.InterviewMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLimits overrides the round limits.
func WithLimits(l Limits) Option {
	return func(o *Orchestrator) { o.limits = l }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New assembles an orchestrator over the four role handlers.
func New(interviewer, evaluator, topicManager, hints roles.Role, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		interviewer:  interviewer,
		evaluator:    evaluator,
		topicManager: topicManager,
		hints:        hints,
		limits:       DefaultLimits(),
		reporter:     NopReporter{},
		logger:       slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartSession announces a new session.
func (o *Orchestrator) StartSession(ctx context.Context, s *interview.Session) {
	o.logger.InfoContext(ctx, "starting session",
		"session_id", s.ID,
		"candidate", s.CandidateName,
		"target_role", s.TargetRole,
		"topics", s.Plan.TopicNames())
	o.metrics.SessionStarted(ctx)
}

// RunRound executes one interactive round, soliciting answers through fn.
// It returns true while more rounds are possible.
func (o *Orchestrator) RunRound(ctx context.Context, s *interview.Session, fn AnswerFunc) (bool, error) {
	return o.runRound(ctx, s, fn, true)
}

// RunScripted executes one round against a pre-supplied answer. Scripted
// rounds skip the follow-up loop: there is no one to ask.
func (o *Orchestrator) RunScripted(ctx context.Context, s *interview.Session, answer string) (bool, error) {
	fn := func(string) (string, error) {
		o.reporter.AnswerEchoed(answer)
		return answer, nil
	}
	return o.runRound(ctx, s, fn, false)
}

func (o *Orchestrator) runRound(ctx context.Context, s *interview.Session, fn AnswerFunc, interactive bool) (bool, error) {
	if s.Plan.Finished() || s.Plan.Current() == nil {
		return false, nil
	}
	current := s.Plan.Current()
	topicName := current.Topic.Name

	// Steer the generator away from the last few questions, any topic.
	qMsg := o.askRole(ctx, o.interviewer,
		message.New(roles.NameOrchestrator, roles.NameInterviewer, message.KindRequestQuestion, "next",
			message.WithTopic(topicName),
			message.WithPayload(message.QuestionRequest{AvoidQuestions: s.RecentQuestions(5)})),
		s)
	if qMsg == nil {
		return false, nil
	}
	question := qMsg.Content
	o.reporter.QuestionAsked(topicName, current.Depth, question)

	answer, err := fn("Your answer: ")
	if err != nil {
		return false, nil
	}
	if isQuitCommand(answer) {
		return false, nil
	}
	if isSkipCommand(answer) {
		return o.forceNextTopic(ctx, s, topicName), nil
	}

	interaction := s.RecordInteraction(topicName, question, answer)

	var evalMsg *message.Message
	if strings.TrimSpace(answer) == "" {
		// An empty answer earns its fixed floor grade without a backend trip.
		evalMsg = emptyAnswerEvaluation(topicName, "Could you share a concrete example, including metrics and tradeoffs?")
	} else {
		evalMsg = o.askRole(ctx, o.evaluator,
			message.New(roles.NameOrchestrator, roles.NameEvaluator, message.KindEvaluateResponse, answer,
				message.WithTopic(topicName),
				message.WithPayload(message.EvaluationRequest{Question: question})),
			s)
	}

	followUp := ""
	if evalMsg != nil {
		eval, _ := evalMsg.EvaluationResult()
		attachEvaluation(interaction, evalMsg.Content, eval)
		o.reporter.Feedback(evalMsg.Content, eval.Score)
		followUp = eval.FollowUpQuestion
		if followUp != "" {
			o.reporter.FollowUp(followUp)
		}

		// Hints are cosmetic; a failure here never blocks the round.
		if hintMsg := o.askRole(ctx, o.hints, evalMsg, s); hintMsg != nil && hintMsg.Content != "" {
			o.reporter.Hint(hintMsg.Content)
		}

		if eval.Score < o.limits.RephraseBelow {
			// A very low score suggests the question needs restating, not a
			// harder follow-up.
			rephrased := o.askRole(ctx, o.interviewer,
				message.New(roles.NameOrchestrator, roles.NameInterviewer, message.KindRequestQuestion, "rephrase",
					message.WithTopic(topicName),
					message.WithPayload(message.QuestionRequest{
						Rephrase:         true,
						OriginalQuestion: question,
						Feedback:         evalMsg.Content,
					})),
				s)
			if rephrased != nil {
				followUp = rephrased.Content
			}
		}
	}

	finalEval := evalMsg
	if evalMsg != nil && interactive {
		var stop bool
		finalEval, stop = o.followUpLoop(ctx, s, fn, topicName, evalMsg, followUp)
		if stop {
			return false, nil
		}
		if finalEval == nil {
			// Skip command inside the loop already routed the transition.
			return true, nil
		}
	}

	if finalEval != nil {
		update := o.askRole(ctx, o.topicManager, finalEval, s)
		switch {
		case update != nil && update.Content == roles.ActionNext:
			next := s.Plan.Current()
			if next == nil {
				return false, nil
			}
			o.reporter.TopicSwitched(next.Topic.Name)
		case update != nil && update.Content == roles.ActionDeepen:
			o.reporter.Deepened()
		}
	}
	o.metrics.RoundCompleted(ctx)
	return true, nil
}

// followUpLoop presses on a weak answer until the score clears the bar, the
// evaluator stops asking, or the cap is hit. Returns the last evaluation to
// route to the topic manager; stop=true means the session ends; a (nil,
// false) return means a skip command already settled the topic transition.
func (o *Orchestrator) followUpLoop(ctx context.Context, s *interview.Session, fn AnswerFunc, topicName string, evalMsg *message.Message, followUp string) (*message.Message, bool) {
	finalEval := evalMsg
	done := 0
	for followUp != "" {
		fuAnswer, err := fn("Your follow-up answer: ")
		if err != nil {
			return nil, true
		}
		if isQuitCommand(fuAnswer) {
			return nil, true
		}
		if isSkipCommand(fuAnswer) {
			o.forceNextTopic(ctx, s, topicName)
			return nil, false
		}

		var fuEval *message.Message
		if strings.TrimSpace(fuAnswer) == "" {
			// Keep pressing the same follow-up; the fixed grade retains it.
			fuEval = emptyAnswerEvaluation(topicName, followUp)
		} else {
			fuInteraction := s.RecordInteraction(topicName, followUp, fuAnswer)
			fuEval = o.askRole(ctx, o.evaluator,
				message.New(roles.NameOrchestrator, roles.NameEvaluator, message.KindEvaluateResponse, fuAnswer,
					message.WithTopic(topicName),
					message.WithPayload(message.EvaluationRequest{Question: followUp})),
				s)
			if fuEval != nil {
				eval, _ := fuEval.EvaluationResult()
				attachEvaluation(fuInteraction, fuEval.Content, eval)
			}
		}

		done++
		if fuEval == nil {
			break
		}
		finalEval = fuEval
		eval, _ := fuEval.EvaluationResult()
		o.reporter.Feedback(fuEval.Content, eval.Score)
		followUp = eval.FollowUpQuestion
		if eval.Score >= o.limits.FollowUpStopAt || followUp == "" || done >= o.limits.MaxFollowUps {
			break
		}
	}
	return finalEval, false
}

// forceNextTopic routes an explicit skip to the topic manager. Returns true
// while the plan still has work.
func (o *Orchestrator) forceNextTopic(ctx context.Context, s *interview.Session, topicName string) bool {
	update := o.askRole(ctx, o.topicManager,
		message.New(roles.NameOrchestrator, roles.NameTopicManager, message.KindControl, "control",
			message.WithTopic(topicName),
			message.WithPayload(message.Control{Command: "next"})),
		s)
	if update != nil && update.Content == roles.ActionNext {
		next := s.Plan.Current()
		if next == nil {
			return false
		}
		o.reporter.TopicSwitched(next.Topic.Name)
	}
	return true
}

// askRole invokes a role and absorbs its failure: roles are designed as total
// functions, so an error here is a contract violation worth logging, but one
// missing message never aborts the session.
func (o *Orchestrator) askRole(ctx context.Context, role roles.Role, msg *message.Message, s *interview.Session) *message.Message {
	start := time.Now()
	out, err := role.Handle(ctx, msg, s)
	o.metrics.ObserveRoleLatency(ctx, role.Name(), time.Since(start))
	if err != nil {
		o.logger.WarnContext(ctx, "role handler failed", "role", role.Name(), "kind", msg.Kind, "error", err)
		return nil
	}
	return out
}

func attachEvaluation(interaction *interview.Interaction, feedback string, eval message.EvaluationResult) {
	interaction.Evaluation = &interview.Evaluation{
		Score:            eval.Score,
		BriefFeedback:    feedback,
		Strengths:        eval.Strengths,
		Improvements:     eval.Improvements,
		FollowUpQuestion: eval.FollowUpQuestion,
	}
}

// emptyAnswerEvaluation is the fixed floor grade for a blank answer.
func emptyAnswerEvaluation(topicName, followUp string) *message.Message {
	return message.New(roles.NameEvaluator, roles.NameOrchestrator, message.KindEvaluation, "No answer provided.",
		message.WithTopic(topicName),
		message.WithPayload(message.EvaluationResult{
			Score:            1.0,
			Improvements:     []string{"Provide a specific, detailed answer"},
			FollowUpQuestion: followUp,
		}))
}

func isQuitCommand(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "/quit", "quit":
		return true
	}
	return false
}

func isSkipCommand(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "/next", "/skip", "next", "skip":
		return true
	}
	return false
}
