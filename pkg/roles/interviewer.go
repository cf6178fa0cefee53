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

const interviewerSystem = "You are a senior technical interviewer. Ask focused, concise questions (one at a time). " +
	"Adapt depth based on the current topic and depth level. Prefer behavioral evidence when relevant."

// Interviewer generates questions for the current topic, and rephrases
// questions the candidate struggled with. It is the only role that mutates
// session state outside the round controller: a normal-mode request bumps the
// current topic's round counter, fallback included, because a question was
// asked either way.
type Interviewer struct {
	base
}

// NewInterviewer creates the question role backed by the given completer.
func NewInterviewer(completer llm.Completer, opts ...Option) *Interviewer {
	return &Interviewer{base: newBase(NameInterviewer, completer, opts...)}
}

// Handle answers REQUEST_QUESTION messages with exactly one QUESTION message.
func (r *Interviewer) Handle(ctx context.Context, msg *message.Message, session *interview.Session) (*message.Message, error) {
	req, ok := msg.QuestionRequest()
	if !ok {
		return nil, nil
	}

	if req.Rephrase {
		return r.rephrase(ctx, msg, req), nil
	}

	topicName := "General"
	depth := 0
	current := session.Plan.Current()
	if current != nil {
		topicName = current.Topic.Name
		depth = current.Depth
	}

	question, err := r.llm.Complete(ctx, interviewerSystem, r.questionPrompt(session, req, topicName, depth), defaultTemperature)
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			r.fallbackUsed(ctx, err)
		}
		question = fallbackQuestion(topicName)
	} else if !strings.HasSuffix(question, "?") {
		question = strings.TrimRight(question, ".") + "?"
	}

	if current != nil {
		current.RoundsOnTopic++
	}

	return message.New(r.name, msg.Sender, message.KindQuestion, question,
		message.WithTopic(topicName)), nil
}

func (r *Interviewer) rephrase(ctx context.Context, msg *message.Message, req message.QuestionRequest) *message.Message {
	prompt := fmt.Sprintf(
		"The candidate is struggling with this question: '%s'\n"+
			"The feedback was: '%s'\n"+
			"Rephrase the question to be clearer or simpler. Focus on the core concept.",
		req.OriginalQuestion, req.Feedback)

	rephrased, err := r.llm.Complete(ctx, interviewerSystem, prompt, defaultTemperature)
	rephrased = strings.TrimSpace(rephrased)
	if err != nil || rephrased == "" {
		if err != nil {
			r.fallbackUsed(ctx, err)
		}
		// The original question is its own fallback restatement.
		rephrased = req.OriginalQuestion
	}

	return message.New(r.name, msg.Sender, message.KindQuestion, rephrased,
		message.WithTopic(msg.Topic))
}

func (r *Interviewer) questionPrompt(session *interview.Session, req message.QuestionRequest, topicName string, depth int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate: %s\n", session.CandidateName)
	fmt.Fprintf(&b, "Target Role: %s\n", session.TargetRole)
	fmt.Fprintf(&b, "Topic: %s (depth %d)\n", topicName, depth)
	fmt.Fprintf(&b, "Resume:\n%s\n\n", session.ResumeText)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", session.JobDescriptionText)
	b.WriteString("Constraints: Do NOT repeat any previous question. Ask a new angle.")

	if recent := session.QuestionsOnTopic(topicName, 3); len(recent) > 0 {
		b.WriteString("\nPrevious questions on this topic:\n- ")
		b.WriteString(strings.Join(recent, "\n- "))
	}
	avoid := req.AvoidQuestions
	if len(avoid) > 5 {
		avoid = avoid[:5]
	}
	if len(avoid) > 0 {
		b.WriteString("\nAvoid these as well:\n- ")
		b.WriteString(strings.Join(avoid, "\n- "))
	}
	b.WriteString("\nProduce ONE question only. Be specific, grounded in resume/JD.")
	return b.String()
}

func fallbackQuestion(topicName string) string {
	return fmt.Sprintf("Tell me about a challenging project you worked on related to %s and what you learned?",
		strings.ToLower(topicName))
}
