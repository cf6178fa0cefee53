// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package topics

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
- name: Go Concurrency
  description: Goroutines, channels, race conditions
  tags: [go, concurrency]
  max_depth: 3
- name: System Design
  tags: [system_design]
- description: nameless entries are dropped
  max_depth: 2
`

func writeTopics(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	topics, err := LoadFile(writeTopics(t, sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2 (nameless entry dropped)", len(topics))
	}
	if topics[0].Name != "Go Concurrency" || topics[0].MaxDepth != 3 {
		t.Errorf("first topic = %+v", topics[0])
	}
	if topics[1].MaxDepth != 3 {
		t.Errorf("missing max_depth should default to 3, got %d", topics[1].MaxDepth)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(writeTopics(t, "not: [valid: yaml")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestInfer(t *testing.T) {
	topics := Infer("Built Golang services on AWS.", "We need distributed systems experience and team leads.")
	names := make(map[string]bool)
	for _, topic := range topics {
		names[topic.Name] = true
	}
	for _, want := range []string{"Go", "Distributed Systems", "Cloud/DevOps", "Leadership"} {
		if !names[want] {
			t.Errorf("inferred topics missing %q: %v", want, names)
		}
	}
}

func TestInferDefaults(t *testing.T) {
	topics := Infer("nothing relevant", "nothing relevant either")
	if len(topics) != 4 {
		t.Fatalf("default plan size = %d, want 4", len(topics))
	}
	if topics[0].Name != "Programming" {
		t.Errorf("first default topic = %q", topics[0].Name)
	}
}

func TestLoadFallsBackToInference(t *testing.T) {
	topics := Load("", "python everywhere", "")
	if len(topics) == 0 {
		t.Fatal("expected inferred topics")
	}
	topics = Load(filepath.Join(t.TempDir(), "missing.yaml"), "python everywhere", "")
	if len(topics) == 0 || topics[0].Name != "Python" {
		t.Errorf("broken file should fall back to inference, got %v", topics)
	}
}
