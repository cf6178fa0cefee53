// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parley-ai/parley/pkg/export"
	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/orchestrator"
	"github.com/parley-ai/parley/pkg/profile"
	"github.com/parley-ai/parley/pkg/topics"
)

func runInterview(ctx context.Context, configPath string, args []string) {
	fs := flag.NewFlagSet("interview", flag.ExitOnError)
	resumePath := fs.String("resume", "resume.txt", "path to the candidate resume")
	jdPath := fs.String("jd", "job_description.txt", "path to the job description")
	topicsPath := fs.String("topics", "", "path to a YAML topic plan (default: infer from documents)")
	outPath := fs.String("out", "session_transcript.json", "path for the exported transcript")
	fs.Parse(args)

	cfg, metrics, shutdown, err := setup(configPath)
	if err != nil {
		fatal(err)
	}
	defer shutdown(context.Background())

	session, err := newSessionFromFiles(cfg.Interview.TopicsFile, *resumePath, *jdPath, *topicsPath)
	if err != nil {
		fatal(err)
	}

	interviewer, evaluator, topicManager, hints := buildRoles(cfg, metrics)
	orch := orchestrator.New(interviewer, evaluator, topicManager, hints,
		orchestrator.WithReporter(orchestrator.ConsoleReporter{W: os.Stdout}),
		orchestrator.WithMetrics(metrics),
		orchestrator.WithLimits(orchestrator.Limits{
			MaxFollowUps:   cfg.Interview.MaxFollowUps,
			RephraseBelow:  cfg.Interview.RephraseBelow,
			FollowUpStopAt: cfg.Interview.FollowUpStopAt,
		}),
	)
	orch.StartSession(ctx, session)

	fmt.Println("Starting mock interview. Commands: /next to switch topic, /quit to end.")
	stdin := bufio.NewReader(os.Stdin)
	answer := func(prompt string) (string, error) {
		fmt.Print(prompt)
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	for {
		if ctx.Err() != nil {
			break
		}
		more, err := orch.RunRound(ctx, session, answer)
		if err != nil {
			fatal(err)
		}
		if !more {
			break
		}
	}
	session.Finalize()

	fmt.Println("\nSession complete. Summary:")
	if avg, n := session.AverageScore(); n > 0 {
		fmt.Printf("Average score: %.2f/10 across %d questions\n", avg, n)
	} else {
		fmt.Println("No evaluations recorded.")
	}

	if err := export.SaveJSON(session, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else {
		fmt.Printf("Saved transcript to %s\n", *outPath)
	}
	if cfg.Store.Path != "" {
		archiveTranscript(ctx, cfg.Store.Path, session)
	}
}

func archiveTranscript(ctx context.Context, path string, session *interview.Session) {
	archive, err := export.OpenArchive(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	defer archive.Close()
	if err := archive.Save(ctx, session); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// newSessionFromFiles builds a session from the resume and job description on
// disk, falling back to the bundled samples when the named files are absent.
func newSessionFromFiles(cfgTopics, resumePath, jdPath, topicsPath string) (*interview.Session, error) {
	candidateName, resumeText, err := profile.LoadResume(fileOrSample(resumePath, "sample_resume.txt"))
	if err != nil {
		return nil, err
	}
	targetRole, jdText, err := profile.LoadJobDescription(fileOrSample(jdPath, "sample_job_description.txt"))
	if err != nil {
		return nil, err
	}
	if topicsPath == "" {
		topicsPath = cfgTopics
	}
	plan := topics.Load(topicsPath, resumeText, jdText)
	return interview.NewSession(candidateName, targetRole, resumeText, jdText, plan), nil
}

func fileOrSample(path, sampleName string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	sample := filepath.Join("data", sampleName)
	if _, err := os.Stat(sample); err == nil {
		return sample
	}
	return path
}
