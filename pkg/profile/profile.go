// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile extracts the candidate profile from plain-text resume and
// job-description documents.
package profile

import (
	"os"
	"strings"

	"github.com/parley-ai/parley/pkg/errors"
)

const (
	// DefaultCandidateName is used when the resume yields no name line.
	DefaultCandidateName = "Candidate"
	// DefaultTargetRole is used when the job description yields no role line.
	DefaultTargetRole = "Software Engineer"
)

// CandidateName extracts the candidate's name: the first non-empty line of
// the resume.
func CandidateName(resumeText string) string {
	if line := firstLine(resumeText); line != "" {
		return line
	}
	return DefaultCandidateName
}

// TargetRole extracts the role being interviewed for: the first non-empty
// line of the job description.
func TargetRole(jdText string) string {
	if line := firstLine(jdText); line != "" {
		return line
	}
	return DefaultTargetRole
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// LoadResume reads a resume file and extracts the candidate name.
func LoadResume(path string) (name, text string, err error) {
	text, err = readTextFile(path)
	if err != nil {
		return "", "", err
	}
	return CandidateName(text), text, nil
}

// LoadJobDescription reads a job-description file and extracts the target role.
func LoadJobDescription(path string) (role, text string, err error) {
	text, err = readTextFile(path)
	if err != nil {
		return "", "", err
	}
	return TargetRole(text), text, nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New(errors.CodeInvalidInput, "failed to read "+path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
