// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package message defines the typed envelope exchanged between interview roles.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the semantic type of a message.
type Kind string

const (
	KindRequestQuestion  Kind = "REQUEST_QUESTION"
	KindQuestion         Kind = "QUESTION"
	KindEvaluateResponse Kind = "EVALUATE_RESPONSE"
	KindEvaluation       Kind = "EVALUATION"
	KindTopicUpdate      Kind = "TOPIC_UPDATE"
	KindControl          Kind = "CONTROL"
	KindHint             Kind = "HINT"
)

// Payload is the closed set of per-kind auxiliary data. Exactly one payload
// type exists per kind that carries structured data; kinds whose full meaning
// fits in Content (Question, Hint, TopicUpdate) travel without a payload.
type Payload interface {
	Kind() Kind
}

// QuestionRequest asks the question role for the next question, or for a
// rephrasing of a question the candidate struggled with.
type QuestionRequest struct {
	// Rephrase switches the request from "next question" to "restate this one".
	Rephrase bool
	// OriginalQuestion and Feedback are set in rephrase mode.
	OriginalQuestion string
	Feedback         string
	// AvoidQuestions lists recently asked questions (any topic) the generator
	// should not repeat. Capped by the caller, typically at five.
	AvoidQuestions []string
}

// Kind implements Payload.
func (QuestionRequest) Kind() Kind { return KindRequestQuestion }

// EvaluationRequest asks the evaluation role to grade an answer. The answer
// itself travels in Message.Content.
type EvaluationRequest struct {
	Question string
}

// Kind implements Payload.
func (EvaluationRequest) Kind() Kind { return KindEvaluateResponse }

// EvaluationResult carries the structured outcome of grading an answer.
// Brief feedback travels in Message.Content.
type EvaluationResult struct {
	Score            float64
	Strengths        []string
	Improvements     []string
	FollowUpQuestion string
}

// Kind implements Payload.
func (EvaluationResult) Kind() Kind { return KindEvaluation }

// Control carries an explicit command to the depth-control role.
type Control struct {
	Command string // "next"
}

// Kind implements Payload.
func (Control) Kind() Kind { return KindControl }

// Message is an immutable unit of communication between roles. Handlers never
// mutate an incoming message; they construct new ones.
type Message struct {
	ID        string
	Sender    string
	Recipient string
	Kind      Kind
	Content   string
	Topic     string
	Payload   Payload
	Timestamp time.Time
}

// Option configures a Message at construction time.
type Option func(*Message)

// WithTopic tags the message with a topic name.
func WithTopic(topic string) Option {
	return func(m *Message) { m.Topic = topic }
}

// WithPayload attaches the kind-specific payload.
func WithPayload(p Payload) Option {
	return func(m *Message) { m.Payload = p }
}

// New builds a message with a generated id and UTC timestamp.
func New(sender, recipient string, kind Kind, content string, opts ...Option) *Message {
	m := &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// QuestionRequest returns the payload if this is a REQUEST_QUESTION message
// carrying one.
func (m *Message) QuestionRequest() (QuestionRequest, bool) {
	p, ok := m.Payload.(QuestionRequest)
	return p, ok && m.Kind == KindRequestQuestion
}

// EvaluationRequest returns the payload if this is an EVALUATE_RESPONSE
// message carrying one.
func (m *Message) EvaluationRequest() (EvaluationRequest, bool) {
	p, ok := m.Payload.(EvaluationRequest)
	return p, ok && m.Kind == KindEvaluateResponse
}

// EvaluationResult returns the payload if this is an EVALUATION message
// carrying one.
func (m *Message) EvaluationResult() (EvaluationResult, bool) {
	p, ok := m.Payload.(EvaluationResult)
	return p, ok && m.Kind == KindEvaluation
}

// Control returns the payload if this is a CONTROL message carrying one.
func (m *Message) Control() (Control, bool) {
	p, ok := m.Payload.(Control)
	return p, ok && m.Kind == KindControl
}
