// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cropsense-dev/cropsense/pkg/health"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show gateway status",
		Long:  "Query the health endpoint of a running cropsense gateway.",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	addr := viper.GetString("server.listen")
	client := newGatewayClient(addr)

	var snapshot health.Snapshot
	if err := client.getJSON("/health", &snapshot); err != nil {
		if errors.Is(err, ErrGatewayNotRunning) {
			_, perr := fmt.Fprintf(cmd.OutOrStdout(), "cropsense gateway is not running at %s\n", addr)
			return perr
		}
		return err
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (uptime %.0fs)\n",
		snapshot.Service, snapshot.Status, snapshot.UptimeSeconds)
	return err
}
