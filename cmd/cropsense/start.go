// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cropsense-dev/cropsense/internal/config"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the cropsense gateway",
		Long:  "Load configuration, wire the scoring pipeline and chat engine, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gw, err := WireGateway(cfg)
	if err != nil {
		return fmt.Errorf("wiring gateway: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting cropsense gateway",
		"listen", cfg.Server.Listen,
		"scoring_backend", cfg.Scoring.Backend,
		"recent_window", cfg.Sessions.RecentWindow,
	)

	return gw.Start(ctx)
}
