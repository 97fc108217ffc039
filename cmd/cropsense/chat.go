// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cropsense-dev/cropsense/internal/server"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the agriculture assistant",
		Long:  "Send a message to the assistant via the gateway. Starts an interactive session if no message is provided.",
		RunE:  runChat,
	}

	cmd.Flags().StringP("session", "s", "", "resume existing session by ID")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	addr := viper.GetString("server.listen")
	client := newGatewayClient(addr)
	sessionID, _ := cmd.Flags().GetString("session")

	if len(args) > 0 {
		turn, err := sendChatTurn(client, sessionID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", turn.Reply)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Interactive chat — type 'exit' to leave.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		turn, err := sendChatTurn(client, sessionID, line)
		if err != nil {
			return err
		}
		sessionID = turn.SessionID // carry the session across turns
		fmt.Fprintf(out, "bot> %s\n", turn.Reply)
	}
	return scanner.Err()
}

func sendChatTurn(client *gatewayClient, sessionID, message string) (*server.ChatTurn, error) {
	req := struct {
		SessionID string `json:"sessionId,omitempty"`
		Message   string `json:"message"`
	}{SessionID: sessionID, Message: message}

	var turn server.ChatTurn
	if err := client.postJSON("/consumer/chat", req, &turn); err != nil {
		return nil, err
	}
	return &turn, nil
}
