// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/pkg/roles"
)

func evalJSON(score float64, followUp string) string {
	return fmt.Sprintf(`{"score": %g, "brief_feedback": "feedback at %g", "strengths": ["s"], "improvements": ["i"], "follow_up_question": %q}`,
		score, score, followUp)
}

func newSession(topicNames ...string) *interview.Session {
	topics := make([]interview.Topic, len(topicNames))
	for i, name := range topicNames {
		topics[i] = interview.Topic{Name: name, MaxDepth: 3}
	}
	return interview.NewSession("Ada", "Backend Engineer", "resume", "jd", topics)
}

func scripted(responses ...string) llm.Completer {
	return llm.NewClient(llm.NewScriptedMockProvider(responses...), "test-model")
}

func down() llm.Completer {
	return llm.NewUnavailableClient("backend down for test")
}

// build wires an orchestrator whose interviewer, evaluator, and hints roles
// answer from the given completers.
func build(interviewerLLM, evaluatorLLM, hintsLLM llm.Completer, opts ...Option) *Orchestrator {
	return New(
		roles.NewInterviewer(interviewerLLM),
		roles.NewEvaluator(evaluatorLLM),
		roles.NewTopicManager(roles.DefaultTopicManagerConfig()),
		roles.NewHints(hintsLLM),
		opts...,
	)
}

func TestRunRoundExhaustedPlan(t *testing.T) {
	o := build(down(), down(), down())
	s := newSession("Only Topic")
	s.Plan.Advance()

	more, err := o.RunScripted(context.Background(), s, "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if more {
		t.Error("exhausted plan should stop the session")
	}
}

func TestScriptedRoundRecordsInteraction(t *testing.T) {
	o := build(
		scripted("How do goroutines communicate?"),
		scripted(evalJSON(7, "")),
		scripted("hint text"),
	)
	s := newSession("Go Concurrency", "System Design")

	more, err := o.RunScripted(context.Background(), s, "They communicate over channels.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("round should continue")
	}
	if len(s.Interactions) != 1 {
		t.Fatalf("interactions = %d, want 1", len(s.Interactions))
	}
	i := s.Interactions[0]
	if i.Question != "How do goroutines communicate?" {
		t.Errorf("question = %q", i.Question)
	}
	if i.Evaluation == nil || i.Evaluation.Score != 7 {
		t.Errorf("evaluation = %+v, want score 7", i.Evaluation)
	}
	// Score 7 on round 1: no deepen, no advance.
	if got := s.Plan.Current().Topic.Name; got != "Go Concurrency" {
		t.Errorf("current topic = %q, want unchanged", got)
	}
}

func TestQuitEndsSessionWithoutInteraction(t *testing.T) {
	o := build(scripted("Q?"), down(), down())
	s := newSession("Topic A")

	more, err := o.RunScripted(context.Background(), s, "/quit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if more {
		t.Error("quit should stop the session")
	}
	if len(s.Interactions) != 0 {
		t.Errorf("interactions = %d, want 0", len(s.Interactions))
	}
}

func TestSkipAdvancesWithoutInteraction(t *testing.T) {
	o := build(scripted("Q1?", "Q2?"), down(), down())
	s := newSession("Topic A", "Topic B")

	more, err := o.RunScripted(context.Background(), s, "/next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("skip with topics remaining should continue")
	}
	if len(s.Interactions) != 0 {
		t.Errorf("interactions = %d, want 0", len(s.Interactions))
	}
	if got := s.Plan.Current().Topic.Name; got != "Topic B" {
		t.Errorf("current topic = %q, want Topic B", got)
	}

	// Skipping the last topic exhausts the plan and stops.
	more, err = o.RunScripted(context.Background(), s, "skip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if more {
		t.Error("skipping the last topic should stop the session")
	}
	if !s.Plan.Finished() {
		t.Error("plan should be finished after both topics are skipped")
	}
}

func TestEmptyAnswerGetsFloorGradeWithoutBackendCall(t *testing.T) {
	// An evaluator backed by a dead client would grade 6.0 if invoked; the
	// floor grade of 1.0 proves the round never called it.
	o := build(scripted("Q?"), down(), down())
	s := newSession("Topic A")

	more, err := o.RunScripted(context.Background(), s, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("round should continue")
	}
	if len(s.Interactions) != 1 {
		t.Fatalf("interactions = %d, want 1 (empty answers are recorded)", len(s.Interactions))
	}
	eval := s.Interactions[0].Evaluation
	if eval == nil || eval.Score != 1.0 {
		t.Fatalf("evaluation = %+v, want fixed score 1", eval)
	}
	if eval.BriefFeedback != "No answer provided." {
		t.Errorf("feedback = %q", eval.BriefFeedback)
	}
	// Score 1 with depth headroom: the topic manager deepens.
	if got := s.Plan.Current().Depth; got != 1 {
		t.Errorf("depth = %d, want 1 after deepen", got)
	}
}

type scriptedAnswers struct {
	answers []string
	n       int
}

func (a *scriptedAnswers) next(string) (string, error) {
	if a.n >= len(a.answers) {
		return "", fmt.Errorf("out of answers")
	}
	ans := a.answers[a.n]
	a.n++
	return ans, nil
}

func TestLowScoreSubstitutesRephrasedFollowUp(t *testing.T) {
	o := build(
		// First response is the question, second the rephrased question.
		scripted("Explain distributed consensus in full detail?", "What problem does consensus solve?"),
		scripted(evalJSON(3, "Can you elaborate?"), evalJSON(9, "")),
		down(),
	)
	s := newSession("Distributed Systems")

	answers := &scriptedAnswers{answers: []string{"umm, not sure", "It lets replicas agree on one value."}}
	more, err := o.RunRound(context.Background(), s, answers.next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("round should continue")
	}
	if len(s.Interactions) != 2 {
		t.Fatalf("interactions = %d, want 2 (original + follow-up)", len(s.Interactions))
	}
	// The follow-up asked is the rephrased question, not the evaluator's.
	if got := s.Interactions[1].Question; got != "What problem does consensus solve?" {
		t.Errorf("follow-up question = %q, want the rephrased question", got)
	}
	if s.Interactions[1].Evaluation == nil || s.Interactions[1].Evaluation.Score != 9 {
		t.Errorf("follow-up evaluation = %+v, want score 9", s.Interactions[1].Evaluation)
	}
}

func TestFollowUpLoopCapped(t *testing.T) {
	// Every evaluation scores 5 and keeps asking; the loop must stop at 3
	// follow-ups.
	o := build(
		scripted("Q?"),
		scripted(
			evalJSON(5, "F1?"),
			evalJSON(5, "F2?"),
			evalJSON(5, "F3?"),
			evalJSON(5, "F4?"),
		),
		down(),
	)
	s := newSession("Topic A")

	answers := &scriptedAnswers{answers: []string{"a0", "a1", "a2", "a3", "a4", "a5"}}
	more, err := o.RunRound(context.Background(), s, answers.next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("round should continue")
	}
	if len(s.Interactions) != 4 {
		t.Errorf("interactions = %d, want 4 (original + capped follow-ups)", len(s.Interactions))
	}
}

func TestFollowUpLoopStopsAtHighScore(t *testing.T) {
	o := build(
		scripted("Q?"),
		scripted(evalJSON(5, "F1?"), evalJSON(8, "still asking?")),
		down(),
	)
	s := newSession("Topic A")

	answers := &scriptedAnswers{answers: []string{"a0", "a1", "a2"}}
	if _, err := o.RunRound(context.Background(), s, answers.next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Score 8 ends the loop even though a follow-up was offered.
	if len(s.Interactions) != 2 {
		t.Errorf("interactions = %d, want 2", len(s.Interactions))
	}
}

func TestScriptedModeSkipsFollowUpLoop(t *testing.T) {
	o := build(scripted("Q?"), scripted(evalJSON(5, "Follow up?")), down())
	s := newSession("Topic A")

	more, err := o.RunScripted(context.Background(), s, "short answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !more {
		t.Error("round should continue")
	}
	if len(s.Interactions) != 1 {
		t.Errorf("interactions = %d, want 1 (no follow-up loop in scripted mode)", len(s.Interactions))
	}
}

func TestEmptyFollowUpAnswerNotRecorded(t *testing.T) {
	o := build(
		scripted("Q?"),
		scripted(evalJSON(5, "F1?")),
		down(),
	)
	s := newSession("Topic A")

	// Empty follow-up answers earn the floor grade but are not recorded; the
	// same follow-up is pressed again until the cap.
	answers := &scriptedAnswers{answers: []string{"a0", "", "", ""}}
	if _, err := o.RunRound(context.Background(), s, answers.next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Interactions) != 1 {
		t.Errorf("interactions = %d, want 1", len(s.Interactions))
	}
	if answers.n != 4 {
		t.Errorf("answer prompts = %d, want 4 (question + capped follow-ups)", answers.n)
	}
}

func runScriptedSession(t *testing.T, o *Orchestrator, s *interview.Session, answers []string) {
	t.Helper()
	for _, ans := range answers {
		more, err := o.RunScripted(context.Background(), s, ans)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !more {
			break
		}
	}
	s.Finalize()
}

func TestScenarioHappyPath(t *testing.T) {
	o := build(
		scripted("Q1?", "Q2?", "Q3?"),
		scripted(evalJSON(7, ""), evalJSON(7, ""), evalJSON(7, "")),
		down(),
	)
	s := newSession("Python", "System Design", "Distributed Systems")

	runScriptedSession(t, o, s, []string{
		"Discussed scalable service design with load shedding.",
		"Explained event-driven design and tradeoffs.",
		"Outlined consensus models in distributed systems.",
	})

	if len(s.Interactions) != 3 {
		t.Fatalf("interactions = %d, want 3", len(s.Interactions))
	}
	for i, interaction := range s.Interactions {
		if interaction.Evaluation == nil {
			t.Errorf("interaction %d missing evaluation", i)
		}
	}
	// Two rounds finish the first topic, the third lands on the second.
	wantTopics := []string{"Python", "Python", "System Design"}
	for i, interaction := range s.Interactions {
		if interaction.Topic != wantTopics[i] {
			t.Errorf("interaction %d topic = %q, want %q", i, interaction.Topic, wantTopics[i])
		}
	}
	if !s.Finalized() {
		t.Error("session should be finalized")
	}
}

func TestScenarioSkipHeavy(t *testing.T) {
	o := build(
		scripted("Q1?", "Q2?", "Q3?"),
		scripted(evalJSON(7, "")),
		down(),
	)
	s := newSession("Topic A", "Topic B", "Topic C")

	runScriptedSession(t, o, s, []string{"/next", "/next", "Handled cloud infra with Terraform."})

	if len(s.Interactions) != 1 {
		t.Fatalf("interactions = %d, want 1", len(s.Interactions))
	}
	if s.Interactions[0].Topic != "Topic C" {
		t.Errorf("interaction topic = %q, want Topic C", s.Interactions[0].Topic)
	}
	progress := s.Plan.Progress()
	if !progress[0].Completed || !progress[1].Completed {
		t.Error("skipped topics should be marked completed")
	}
}

func TestScenarioEmptyThenHugeAnswer(t *testing.T) {
	o := build(
		scripted("Q1?", "Q2?", "Q3?"),
		scripted(evalJSON(7, "")),
		down(),
	)
	s := newSession("Topic A", "Topic B")

	long := strings.Repeat("A", 5000)
	runScriptedSession(t, o, s, []string{"", long, "/quit"})

	if len(s.Interactions) != 2 {
		t.Fatalf("interactions = %d, want 2 (empty answer is recorded)", len(s.Interactions))
	}
	if s.Interactions[0].Evaluation.Score != 1.0 {
		t.Errorf("first score = %v, want the fixed 1.0", s.Interactions[0].Evaluation.Score)
	}
	if s.Interactions[1].Evaluation.Score != 7.0 {
		t.Errorf("second score = %v, want 7.0", s.Interactions[1].Evaluation.Score)
	}
	if s.Interactions[1].Answer != long {
		t.Error("long answer should be stored verbatim")
	}
}

func TestFullSessionWithBackendDown(t *testing.T) {
	// Every role falls back; the session still runs to completion.
	o := build(down(), down(), down())
	s := newSession("Go Concurrency")

	rounds := 0
	for rounds < 10 {
		more, err := o.RunScripted(context.Background(), s, "a substantive answer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rounds++
		if !more {
			break
		}
	}
	s.Finalize()

	if !s.Plan.Finished() {
		t.Error("plan should finish on fallbacks alone")
	}
	if len(s.Interactions) == 0 {
		t.Fatal("no interactions recorded")
	}
	for i, interaction := range s.Interactions {
		if !strings.HasSuffix(interaction.Question, "?") {
			t.Errorf("interaction %d question %q should end with ?", i, interaction.Question)
		}
		if interaction.Evaluation == nil || interaction.Evaluation.Score != 6.0 {
			t.Errorf("interaction %d evaluation = %+v, want fallback score 6", i, interaction.Evaluation)
		}
	}
}

type recordingReporter struct {
	NopReporter
	feedback []float64
	hints    []string
	switches []string
}

func (r *recordingReporter) Feedback(_ string, score float64) { r.feedback = append(r.feedback, score) }
func (r *recordingReporter) Hint(h string)                    { r.hints = append(r.hints, h) }
func (r *recordingReporter) TopicSwitched(topic string)       { r.switches = append(r.switches, topic) }

func TestReporterReceivesRoundEvents(t *testing.T) {
	rep := &recordingReporter{}
	o := build(
		scripted("Q1?", "Q2?"),
		scripted(evalJSON(7, ""), evalJSON(7, "")),
		scripted("hint one", "hint two"),
		WithReporter(rep),
	)
	s := newSession("Topic A", "Topic B")

	runScriptedSession(t, o, s, []string{"answer one", "answer two"})

	if len(rep.feedback) != 2 {
		t.Errorf("feedback events = %d, want 2", len(rep.feedback))
	}
	if len(rep.hints) != 2 {
		t.Errorf("hint events = %d, want 2", len(rep.hints))
	}
	// Round two exhausts the two-round rule and switches topics.
	if len(rep.switches) != 1 || rep.switches[0] != "Topic B" {
		t.Errorf("switch events = %v, want [Topic B]", rep.switches)
	}
}
