// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package topics loads the interview topic plan from a YAML file, falling
// back to keyword inference over the resume and job description.
package topics

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parley-ai/parley/pkg/errors"
	"github.com/parley-ai/parley/pkg/interview"
)

// LoadFile reads a topic list from YAML. Entries without a name are skipped;
// a missing max_depth gets the default.
func LoadFile(path string) ([]interview.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "failed to read topics file "+path, err)
	}
	var raw []interview.Topic
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "failed to parse topics file "+path, err)
	}
	topics := make([]interview.Topic, 0, len(raw))
	for _, t := range raw {
		if t.Name == "" {
			continue
		}
		if t.MaxDepth <= 0 {
			t.MaxDepth = interview.DefaultMaxDepth
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// Infer derives a topic plan from keywords in the resume and job description.
// The result is never empty: with no keyword hits it returns the generalist
// plan.
func Infer(resumeText, jdText string) []interview.Topic {
	combined := strings.ToLower(resumeText + "\n" + jdText)
	var result []interview.Topic

	add := func(name, desc string, tags []string, depth int) {
		result = append(result, interview.Topic{Name: name, Description: desc, Tags: tags, MaxDepth: depth})
	}

	if strings.Contains(combined, "go ") || strings.Contains(combined, "golang") {
		add("Go", "Language, concurrency, testing", []string{"go"}, 3)
	}
	if strings.Contains(combined, "python") {
		add("Python", "Language, libraries, testing", []string{"python"}, 3)
	}
	if strings.Contains(combined, "system") || strings.Contains(combined, "design") {
		add("System Design", "Architecture and tradeoffs", []string{"system_design"}, 3)
	}
	if strings.Contains(combined, "distributed") {
		add("Distributed Systems", "Consistency, scaling, resilience", []string{"distributed"}, 3)
	}
	if strings.Contains(combined, "aws") || strings.Contains(combined, "cloud") || strings.Contains(combined, "docker") {
		add("Cloud/DevOps", "AWS, Docker, infra ops", []string{"cloud", "devops"}, 2)
	}
	if strings.Contains(combined, "lead") || strings.Contains(combined, "mentor") {
		add("Leadership", "Team leadership, communication", []string{"leadership"}, 2)
	}

	if len(result) == 0 {
		result = []interview.Topic{
			{Name: "Programming", Description: "Language fluency, libraries, testing", Tags: []string{"programming"}, MaxDepth: 3},
			{Name: "System Design", Description: "Architecture and tradeoffs", Tags: []string{"system_design"}, MaxDepth: 3},
			{Name: "Distributed Systems", Description: "Consistency, scaling, resilience", Tags: []string{"distributed"}, MaxDepth: 3},
			{Name: "Cloud/DevOps", Description: "AWS, Docker, infra ops", Tags: []string{"cloud", "devops"}, MaxDepth: 2},
		}
	}
	return result
}

// Load returns topics from the file when it parses, otherwise falls back to
// inference. An empty path goes straight to inference.
func Load(path, resumeText, jdText string) []interview.Topic {
	if path != "" {
		if topics, err := LoadFile(path); err == nil && len(topics) > 0 {
			return topics
		}
	}
	return Infer(resumeText, jdText)
}
