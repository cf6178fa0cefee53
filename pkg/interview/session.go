// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"time"

	"github.com/google/uuid"
)

// Interaction records one question/answer exchange. Appended to the session
// once and never removed; the only later mutation is attaching its Evaluation.
type Interaction struct {
	Topic      string
	Question   string
	Answer     string
	Evaluation *Evaluation
	AskedAt    time.Time
	AnsweredAt time.Time
}

// Session is the full record of one interview run. The round controller owns
// it for its lifetime; once finalized it is read-only.
type Session struct {
	ID                 string
	CandidateName      string
	TargetRole         string
	ResumeText         string
	JobDescriptionText string
	Plan               *Plan
	Interactions       []*Interaction
	StartedAt          time.Time
	EndedAt            time.Time
	Metrics            map[string]float64
}

// NewSession creates a session with a generated id over the given topics.
func NewSession(candidateName, targetRole, resumeText, jdText string, topics []Topic) *Session {
	return &Session{
		ID:                 uuid.NewString(),
		CandidateName:      candidateName,
		TargetRole:         targetRole,
		ResumeText:         resumeText,
		JobDescriptionText: jdText,
		Plan:               NewPlan(topics),
		StartedAt:          time.Now().UTC(),
		Metrics:            make(map[string]float64),
	}
}

// RecordInteraction appends a new question/answer pair and returns it so the
// caller can attach the evaluation once grading completes.
func (s *Session) RecordInteraction(topic, question, answer string) *Interaction {
	now := time.Now().UTC()
	interaction := &Interaction{
		Topic:      topic,
		Question:   question,
		Answer:     answer,
		AskedAt:    now,
		AnsweredAt: now,
	}
	s.Interactions = append(s.Interactions, interaction)
	return interaction
}

// RecentQuestions returns up to limit of the most recently asked questions
// across all topics, oldest first.
func (s *Session) RecentQuestions(limit int) []string {
	start := len(s.Interactions) - limit
	if start < 0 {
		start = 0
	}
	questions := make([]string, 0, len(s.Interactions)-start)
	for _, i := range s.Interactions[start:] {
		questions = append(questions, i.Question)
	}
	return questions
}

// QuestionsOnTopic returns up to limit of the most recent questions asked on
// the named topic, oldest first.
func (s *Session) QuestionsOnTopic(topic string, limit int) []string {
	var questions []string
	for _, i := range s.Interactions {
		if i.Topic == topic {
			questions = append(questions, i.Question)
		}
	}
	if len(questions) > limit {
		questions = questions[len(questions)-limit:]
	}
	return questions
}

// Finalize stamps the end time. Safe to call more than once; the first call
// wins.
func (s *Session) Finalize() {
	if s.EndedAt.IsZero() {
		s.EndedAt = time.Now().UTC()
	}
}

// Finalized reports whether the session has ended.
func (s *Session) Finalized() bool {
	return !s.EndedAt.IsZero()
}

// AverageScore returns the mean evaluation score and the number of graded
// interactions.
func (s *Session) AverageScore() (float64, int) {
	var sum float64
	var n int
	for _, i := range s.Interactions {
		if i.Evaluation != nil {
			sum += i.Evaluation.Score
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
