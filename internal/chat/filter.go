// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultScoreThreshold applies when the question names no number.
const defaultScoreThreshold = 85.0

var (
	comparisonWords = []string{"above", "greater than", "more than", "higher than"}
	digitRun        = regexp.MustCompile(`\d+`)
)

// CropRecord is a caller-supplied crop row eligible for score filtering.
// Field names mirror the upstream inventory payload.
type CropRecord struct {
	ID          any     `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	AiScore     float64 `json:"aiScore"`
	AiVerdict   string  `json:"aiVerdict"`
	HarvestDate string  `json:"harvestDate"`
	InvCode     string  `json:"invCode"`
}

// FilterCropsByScore answers questions like "show products with ai score
// above 90" against caller-supplied records. The threshold is the first
// digit run in the question, defaulting to 85. It never touches session
// state. ok is false when the question is not a score-filter request, in
// which case the caller should fall back to the chatbot reply.
func FilterCropsByScore(question string, crops []CropRecord) (reply string, matched []CropRecord, ok bool) {
	text := strings.ToLower(question)
	if !strings.Contains(text, "ai score") || !containsAnyOf(text, comparisonWords) {
		return "", nil, false
	}

	threshold := defaultScoreThreshold
	if m := digitRun.FindString(text); m != "" {
		var v float64
		if _, err := fmt.Sscanf(m, "%f", &v); err == nil {
			threshold = v
		}
	}

	matched = make([]CropRecord, 0, len(crops))
	for _, crop := range crops {
		if crop.AiScore >= threshold {
			matched = append(matched, crop)
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("I could not find any products with AI score above %d.", int(threshold)), matched, true
	}

	names := make([]string, 0, len(matched))
	for _, crop := range matched {
		if crop.Name != "" {
			names = append(names, crop.Name)
		}
	}
	reply = fmt.Sprintf("Here are the products with AI score above %d: %s.",
		int(threshold), strings.Join(names, ", "))
	return reply, matched, true
}

func containsAnyOf(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
