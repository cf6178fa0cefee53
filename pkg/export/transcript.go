// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package export renders finished sessions as portable transcripts and
// archives them for later review.
package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/interview"
)

// Transcript is the stable external representation of a session. Building it
// from the same unmutated session twice yields identical output.
type Transcript struct {
	SessionID    string                  `json:"session_id"`
	Candidate    string                  `json:"candidate"`
	TargetRole   string                  `json:"target_role"`
	Topics       []string                `json:"topics"`
	Interactions []TranscriptInteraction `json:"interactions"`
	StartedAt    time.Time               `json:"started_at"`
	EndedAt      time.Time               `json:"ended_at,omitzero"`
	AverageScore float64                 `json:"average_score"`
}

// TranscriptInteraction is one question/answer exchange in a transcript.
type TranscriptInteraction struct {
	Topic      string                `json:"topic"`
	Question   string                `json:"question"`
	Answer     string                `json:"answer"`
	Evaluation *TranscriptEvaluation `json:"evaluation"`
}

// TranscriptEvaluation is the graded outcome of one exchange.
type TranscriptEvaluation struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	FollowUp     string   `json:"follow_up"`
}

// FromSession builds a transcript snapshot of the session.
func FromSession(s *interview.Session) Transcript {
	avg, _ := s.AverageScore()
	t := Transcript{
		SessionID:    s.ID,
		Candidate:    s.CandidateName,
		TargetRole:   s.TargetRole,
		Topics:       s.Plan.TopicNames(),
		Interactions: make([]TranscriptInteraction, 0, len(s.Interactions)),
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		AverageScore: avg,
	}
	for _, i := range s.Interactions {
		ti := TranscriptInteraction{
			Topic:    i.Topic,
			Question: i.Question,
			Answer:   i.Answer,
		}
		if i.Evaluation != nil {
			ti.Evaluation = &TranscriptEvaluation{
				Score:        i.Evaluation.Score,
				Feedback:     i.Evaluation.BriefFeedback,
				Strengths:    i.Evaluation.Strengths,
				Improvements: i.Evaluation.Improvements,
				FollowUp:     i.Evaluation.FollowUpQuestion,
			}
		}
		t.Interactions = append(t.Interactions, ti)
	}
	return t
}

// SaveJSON writes the session transcript to path as indented JSON.
func SaveJSON(s *interview.Session, path string) error {
	data, err := json.MarshalIndent(FromSession(s), "", "  ")
	if err != nil {
		return errors.New(errors.CodeInternal, "failed to encode transcript", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.New(errors.CodeInternal, "failed to write transcript to "+path, err)
	}
	return nil
}
