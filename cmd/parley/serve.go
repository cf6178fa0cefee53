// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/parley-ai/parley/pkg/export"
	"github.com/parley-ai/parley/pkg/httpapi"
)

func runServe(ctx context.Context, configPath string, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	cfg, metrics, shutdown, err := setup(configPath)
	if err != nil {
		fatal(err)
	}
	defer shutdown(context.Background())

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	opts := []httpapi.ServerOption{httpapi.WithMetrics(metrics)}
	if cfg.Store.Path != "" {
		archive, err := export.OpenArchive(cfg.Store.Path)
		if err != nil {
			fatal(err)
		}
		defer archive.Close()
		opts = append(opts, httpapi.WithArchive(archive))
	}

	interviewer, evaluator, topicManager, hints := buildRoles(cfg, metrics)
	srv := httpapi.NewServer(
		httpapi.Config{
			Addr:        cfg.Server.Addr,
			CORSOrigins: cfg.Server.CORSOrigins,
			TopicsPath:  cfg.Interview.TopicsFile,
			Version:     version,
		},
		httpapi.NewMemoryStore(),
		interviewer, evaluator, topicManager, hints,
		opts...,
	)

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
