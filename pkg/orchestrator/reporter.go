// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"io"
)

// Reporter receives the human-facing events of a round. The CLI prints them;
// the HTTP layer and tests use the no-op.
type Reporter interface {
	QuestionAsked(topic string, depth int, question string)
	AnswerEchoed(answer string)
	Feedback(feedback string, score float64)
	FollowUp(question string)
	Hint(hint string)
	TopicSwitched(topic string)
	Deepened()
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) QuestionAsked(string, int, string) {}
func (NopReporter) AnswerEchoed(string)               {}
func (NopReporter) Feedback(string, float64)          {}
func (NopReporter) FollowUp(string)                   {}
func (NopReporter) Hint(string)                       {}
func (NopReporter) TopicSwitched(string)              {}
func (NopReporter) Deepened()                         {}

// ConsoleReporter writes round events as interview transcript lines.
type ConsoleReporter struct {
	W io.Writer
}

func (c ConsoleReporter) QuestionAsked(topic string, depth int, question string) {
	fmt.Fprintf(c.W, "\n[Topic: %s | Depth: %d]\nQ: %s\n", topic, depth, question)
	fmt.Fprintln(c.W, "Type '/next' to switch topic, or '/quit' to end.")
}

func (c ConsoleReporter) AnswerEchoed(answer string) {
	fmt.Fprintf(c.W, "Your answer: %s\n", answer)
}

func (c ConsoleReporter) Feedback(feedback string, score float64) {
	fmt.Fprintf(c.W, "Feedback: %s (score: %.1f/10)\n", feedback, score)
}

func (c ConsoleReporter) FollowUp(question string) {
	fmt.Fprintf(c.W, "Follow-up: %s\n", question)
}

func (c ConsoleReporter) Hint(hint string) {
	fmt.Fprintf(c.W, "Hint: %s\n", hint)
}

func (c ConsoleReporter) TopicSwitched(topic string) {
	fmt.Fprintf(c.W, "-- Switching to topic: %s --\n", topic)
}

func (c ConsoleReporter) Deepened() {
	fmt.Fprintln(c.W, "-- Going deeper on the same topic --")
}
