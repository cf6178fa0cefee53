// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

import (
	"fmt"
	"testing"
)

func TestRecordInteractionAppends(t *testing.T) {
	s := NewSession("Ada", "Backend Engineer", "resume", "jd", testTopics())

	first := s.RecordInteraction("Go", "What is a goroutine?", "A lightweight thread.")
	s.RecordInteraction("Go", "Explain channels.", "Typed conduits.")

	if len(s.Interactions) != 2 {
		t.Fatalf("interactions = %d, want 2", len(s.Interactions))
	}
	if first.AskedAt.IsZero() || first.AnsweredAt.IsZero() {
		t.Error("timestamps must be stamped on record")
	}
	if first.Evaluation != nil {
		t.Error("evaluation starts unattached")
	}
}

func TestRecentQuestionsWindow(t *testing.T) {
	s := NewSession("Ada", "Backend Engineer", "", "", testTopics())
	for i := 0; i < 7; i++ {
		s.RecordInteraction("Go", fmt.Sprintf("q%d", i), "a")
	}

	recent := s.RecentQuestions(5)
	if len(recent) != 5 {
		t.Fatalf("recent = %d, want 5", len(recent))
	}
	if recent[0] != "q2" || recent[4] != "q6" {
		t.Errorf("window = %v", recent)
	}
}

func TestQuestionsOnTopicFiltersAndCaps(t *testing.T) {
	s := NewSession("Ada", "Backend Engineer", "", "", testTopics())
	s.RecordInteraction("Go", "g1", "a")
	s.RecordInteraction("Cloud", "c1", "a")
	s.RecordInteraction("Go", "g2", "a")
	s.RecordInteraction("Go", "g3", "a")
	s.RecordInteraction("Go", "g4", "a")

	got := s.QuestionsOnTopic("Go", 3)
	want := []string{"g2", "g3", "g4"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("questions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAverageScore(t *testing.T) {
	s := NewSession("Ada", "Backend Engineer", "", "", testTopics())
	a := s.RecordInteraction("Go", "q1", "a1")
	s.RecordInteraction("Go", "q2", "a2") // ungraded
	b := s.RecordInteraction("Go", "q3", "a3")

	a.Evaluation = &Evaluation{Score: 8}
	b.Evaluation = &Evaluation{Score: 4}

	avg, n := s.AverageScore()
	if n != 2 {
		t.Errorf("graded = %d, want 2", n)
	}
	if avg != 6 {
		t.Errorf("avg = %v, want 6", avg)
	}
}

func TestFinalizeFirstCallWins(t *testing.T) {
	s := NewSession("Ada", "Backend Engineer", "", "", nil)
	s.Finalize()
	ended := s.EndedAt
	s.Finalize()
	if !s.EndedAt.Equal(ended) {
		t.Error("second finalize must not move the end time")
	}
	if !s.Finalized() {
		t.Error("session should report finalized")
	}
}
