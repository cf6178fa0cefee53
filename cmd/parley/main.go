// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Command parley runs simulated structured interviews: interactively in the
// terminal, as an HTTP service, or as scripted smoke scenarios.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/parley-ai/parley/pkg/config"
	"github.com/parley-ai/parley/pkg/llm"
	"github.com/parley-ai/parley/pkg/resilience"
	"github.com/parley-ai/parley/pkg/roles"
	"github.com/parley-ai/parley/pkg/telemetry"
	"github.com/parley-ai/parley/providers"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Vendor API keys commonly live in a local .env during development.
	_ = godotenv.Load()

	configPath, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if len(args) == 0 {
		printUsage()
		return
	}

	switch cmd := args[0]; cmd {
	case "interview":
		runInterview(ctx, configPath, args[1:])
	case "serve":
		runServe(ctx, configPath, args[1:])
	case "scenarios":
		runScenarios(ctx, configPath, args[1:])
	case "version":
		fmt.Printf("parley %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", cmd))
	}
}

func parseGlobalFlags(args []string) (configPath string, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return configPath, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			return configPath, []string{"help"}, nil
		case arg == "--config":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("missing value for --config")
			}
			configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			return "", nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return configPath, nil, nil
}

// setup loads config, wires logging and telemetry, and builds metrics. The
// returned shutdown flushes telemetry and must be deferred by the caller.
func setup(configPath string) (*config.Config, *telemetry.InterviewMetrics, telemetry.ShutdownFunc, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.Init("parley", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	metrics, err := telemetry.NewInterviewMetrics()
	if err != nil {
		shutdown(context.Background())
		return nil, nil, nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	return cfg, metrics, shutdown, nil
}

// buildRoles assembles the four role handlers over the configured backend.
// A missing API key degrades to the roles' deterministic fallbacks instead
// of failing startup.
func buildRoles(cfg *config.Config, metrics *telemetry.InterviewMetrics) (interviewer, evaluator, topicManager, hints roles.Role) {
	completer := providers.NewCompleter(cfg.LLM.Preference,
		providers.Credentials{
			OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
			AnthropicAPIKey: cfg.LLM.AnthropicAPIKey,
		},
		llm.WithTimeout(cfg.LLM.Timeout()),
		llm.WithRetry(resilience.DefaultRetryConfig().WithMaxAttempts(cfg.LLM.MaxRetries)),
	)

	interviewer = roles.NewInterviewer(completer, roles.WithMetrics(metrics))
	evaluator = roles.NewEvaluator(completer, roles.WithMetrics(metrics))
	topicManager = roles.NewTopicManager(roles.TopicManagerConfig{
		DeepenBelow:     cfg.Interview.DeepenBelow,
		RoundsToAdvance: cfg.Interview.RoundsToAdvance,
	}, roles.WithMetrics(metrics))
	hints = roles.NewHints(completer, roles.WithMetrics(metrics))
	return interviewer, evaluator, topicManager, hints
}

func printUsage() {
	fmt.Print(`parley - simulated structured interview engine

Usage:
  parley [--config FILE] <command> [flags]

Commands:
  interview   Run an interactive interview in the terminal
  serve       Serve the interview API over HTTP
  scenarios   Run the scripted smoke scenarios and print their summaries
  version     Print the version
  help        Show this help

Environment:
  PARLEY_*             Override any config key (e.g. PARLEY_LLM_PREFERENCE)
  OPENAI_API_KEY       OpenAI credentials
  ANTHROPIC_API_KEY    Anthropic credentials
`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
