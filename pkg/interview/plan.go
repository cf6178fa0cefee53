// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

// Plan is the ordered topic progression for one session. The cursor only ever
// moves forward; there is no operation that decrements it.
//
// Completion flags are the source of truth for Finished(). The cursor can run
// past the last entry while an earlier topic was never completed (a controller
// that exits early); such a plan reports Current() == nil but not Finished().
type Plan struct {
	progress []*TopicProgress
	current  int
}

// NewPlan builds a plan over the given topics in order. Topics without a
// positive MaxDepth get DefaultMaxDepth.
func NewPlan(topics []Topic) *Plan {
	progress := make([]*TopicProgress, 0, len(topics))
	for _, t := range topics {
		if t.MaxDepth <= 0 {
			t.MaxDepth = DefaultMaxDepth
		}
		progress = append(progress, &TopicProgress{Topic: t})
	}
	return &Plan{progress: progress}
}

// Current returns the progress entry under the cursor, or nil when the cursor
// has run past the last topic.
func (p *Plan) Current() *TopicProgress {
	if p.current >= 0 && p.current < len(p.progress) {
		return p.progress[p.current]
	}
	return nil
}

// Advance moves the cursor to the next topic and returns its progress, or nil
// when the plan is exhausted. The move is irreversible.
func (p *Plan) Advance() *TopicProgress {
	p.current++
	return p.Current()
}

// Finished reports whether every topic has been marked completed.
func (p *Plan) Finished() bool {
	for _, prog := range p.progress {
		if !prog.Completed {
			return false
		}
	}
	return true
}

// Progress returns the plan's entries in order. The slice is shared; callers
// must not reorder it.
func (p *Plan) Progress() []*TopicProgress {
	return p.progress
}

// Topics returns the ordered topic definitions, detached from any progress
// state. Useful for building a fresh plan over the same topics.
func (p *Plan) Topics() []Topic {
	topics := make([]Topic, 0, len(p.progress))
	for _, prog := range p.progress {
		topics = append(topics, prog.Topic)
	}
	return topics
}

// TopicNames returns the ordered topic names.
func (p *Plan) TopicNames() []string {
	names := make([]string, 0, len(p.progress))
	for _, prog := range p.progress {
		names = append(names, prog.Topic.Name)
	}
	return names
}
