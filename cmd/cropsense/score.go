// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cropsense-dev/cropsense/internal/scorer"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <image-file>",
		Short: "Score a crop image",
		Long:  "Send a local crop image (JPEG/PNG/WEBP) to the gateway and print the quality score.",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return cserr.Errorf(cserr.CodeCLIInputInvalid, "reading image file: %w", err)
	}

	req := struct {
		Image string `json:"image"`
	}{Image: dataURL(path, data)}

	var resp struct {
		AiScore      float64        `json:"ai_score"`
		QualityLabel string         `json:"quality_label"`
		Details      scorer.Details `json:"details"`
	}

	addr := viper.GetString("server.listen")
	client := newGatewayClient(addr)
	if err := client.postJSON("/score", req, &resp); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "score: %.2f (%s, method=%s)\n",
		resp.AiScore, resp.QualityLabel, resp.Details.Method)
	return err
}

// dataURL wraps raw image bytes in the data-URL format the /score
// endpoint accepts, guessing the media type from the file extension.
func dataURL(path string, data []byte) string {
	mediaType := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mediaType = "image/png"
	case ".webp":
		mediaType = "image/webp"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
