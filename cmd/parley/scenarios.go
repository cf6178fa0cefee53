// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/orchestrator"
	"github.com/parley-ai/parley/pkg/scenario"
)

func runScenarios(ctx context.Context, configPath string, args []string) {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	resumePath := fs.String("resume", "resume.txt", "path to the candidate resume")
	jdPath := fs.String("jd", "job_description.txt", "path to the job description")
	topicsPath := fs.String("topics", "", "path to a YAML topic plan")
	fs.Parse(args)

	cfg, metrics, shutdown, err := setup(configPath)
	if err != nil {
		fatal(err)
	}
	defer shutdown(context.Background())

	template, err := newSessionFromFiles(cfg.Interview.TopicsFile, *resumePath, *jdPath, *topicsPath)
	if err != nil {
		fatal(err)
	}

	interviewer, evaluator, topicManager, hints := buildRoles(cfg, metrics)
	orch := orchestrator.New(interviewer, evaluator, topicManager, hints,
		orchestrator.WithMetrics(metrics))

	runner := scenario.NewRunner(orch, func() *interview.Session {
		// Each scenario gets a fresh session over the same documents.
		return interview.NewSession(
			template.CandidateName,
			template.TargetRole,
			template.ResumeText,
			template.JobDescriptionText,
			template.Plan.Topics(),
		)
	})

	results, err := runner.RunAll(ctx)
	if err != nil {
		fatal(err)
	}
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}
