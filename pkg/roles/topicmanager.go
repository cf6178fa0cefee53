// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package roles

import (
	"context"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/message"
)

// TopicManagerConfig tunes the depth-control thresholds.
type TopicManagerConfig struct {
	// DeepenBelow is the score under which a topic is probed one level deeper.
	DeepenBelow float64
	// RoundsToAdvance is the round count at which the plan moves on.
	RoundsToAdvance int
}

// DefaultTopicManagerConfig returns the shipped thresholds.
func DefaultTopicManagerConfig() TopicManagerConfig {
	return TopicManagerConfig{DeepenBelow: 6.0, RoundsToAdvance: 2}
}

// TopicManager is the topic-progression transition function. It consumes
// EVALUATION and CONTROL messages, applies at most one plan mutation per
// call, and reports the decision. It never talks to the backend, so the same
// inputs and plan state always produce the same decision.
type TopicManager struct {
	base
	cfg TopicManagerConfig
}

// NewTopicManager creates the depth-control role.
func NewTopicManager(cfg TopicManagerConfig, opts ...Option) *TopicManager {
	if cfg.DeepenBelow <= 0 {
		cfg.DeepenBelow = DefaultTopicManagerConfig().DeepenBelow
	}
	if cfg.RoundsToAdvance <= 0 {
		cfg.RoundsToAdvance = DefaultTopicManagerConfig().RoundsToAdvance
	}
	return &TopicManager{base: newBase(NameTopicManager, nil, opts...), cfg: cfg}
}

// Handle decides one topic transition and answers with a TOPIC_UPDATE message
// whose Content is the decision and whose Topic is the topic now current, or
// "Finished" when the plan is exhausted.
//
// The rules run in order and the first match wins:
//
//  1. Evaluation scored under the deepen threshold while depth headroom
//     remains: go one level deeper on the same topic.
//  2. Enough rounds spent on this topic: complete it and advance.
//  3. Explicit "next" command: complete it and advance regardless of rounds.
//     A Control message carries no score, so rule 1 can never preempt an
//     explicit skip.
//  4. Otherwise stay put.
func (r *TopicManager) Handle(_ context.Context, msg *message.Message, session *interview.Session) (*message.Message, error) {
	eval, isEval := msg.EvaluationResult()
	ctrl, isCtrl := msg.Control()
	if !isEval && !isCtrl {
		return nil, nil
	}

	plan := session.Plan
	current := plan.Current()
	if current == nil {
		return nil, nil
	}

	action := ActionStay
	switch {
	case isEval && eval.Score < r.cfg.DeepenBelow && current.Depth < current.Topic.MaxDepth:
		current.Depth++
		action = ActionDeepen
	case current.RoundsOnTopic >= r.cfg.RoundsToAdvance:
		current.Completed = true
		plan.Advance()
		action = ActionNext
	case isCtrl && ctrl.Command == "next":
		current.Completed = true
		plan.Advance()
		action = ActionNext
	}

	topicName := "Finished"
	if next := plan.Current(); next != nil {
		topicName = next.Topic.Name
	}
	return message.New(r.name, msg.Sender, message.KindTopicUpdate, action,
		message.WithTopic(topicName)), nil
}
