// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package interview holds the domain model for a simulated interview: topics,
// the topic-plan state machine, evaluations, and the session record.
package interview

// DefaultMaxDepth bounds how many times a topic may be deepened when the topic
// definition does not say otherwise.
const DefaultMaxDepth = 3

// Topic is a named subject area with a bounded probing depth.
// Immutable once loaded.
type Topic struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	MaxDepth    int      `yaml:"max_depth"`
}

// TopicProgress tracks per-topic interview state. Owned exclusively by the
// Plan; roles mutate it only through the depth-control decision.
type TopicProgress struct {
	Topic         Topic
	Depth         int
	RoundsOnTopic int
	Completed     bool
}
