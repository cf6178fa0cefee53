// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package interview

// Evaluation is the structured outcome of grading one answer. Score is 0-10
// by convention; an empty FollowUpQuestion means no follow-up is wanted.
type Evaluation struct {
	Score            float64  `json:"score"`
	BriefFeedback    string   `json:"feedback"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	FollowUpQuestion string   `json:"follow_up"`
}
