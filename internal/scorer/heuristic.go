// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package scorer

import (
	"math"

	"github.com/cropsense-dev/cropsense/internal/imaging"
)

// Heuristic scores crops from color statistics: healthy crops are
// usually greener and neither too dark nor washed out. This is a
// placeholder for a trained model behind the same Scorer contract.
type Heuristic struct{}

var _ Scorer = (*Heuristic)(nil)

// Score computes the heuristic quality score. Pure and deterministic:
// identical arrays yield bit-for-bit identical results apart from the
// fresh request id.
func (h *Heuristic) Score(arr imaging.Array) (*Result, error) {
	var sumR, sumG, sumB float64
	var pixels float64

	for _, row := range arr {
		for _, px := range row {
			sumR += float64(px[0])
			sumG += float64(px[1])
			sumB += float64(px[2])
		}
		pixels += float64(len(row))
	}

	var meanR, meanG, meanB float64
	if pixels > 0 {
		meanR = sumR / pixels
		meanG = sumG / pixels
		meanB = sumB / pixels
	}

	greenScore := meanG - 0.5*meanR - 0.2*meanB
	brightness := (meanR + meanG + meanB) / 3.0

	base := greenScore*50.0 + (brightness-0.3)*40.0
	score := clamp(base+50.0, 0.0, 100.0)
	score = math.Round(score*100) / 100

	return &Result{
		RequestID:    newRequestID(),
		Score:        score,
		QualityLabel: LabelForScore(score),
		Details: Details{
			Method: "heuristic",
			NormalizedDimensions: Dimensions{
				Width:  dimOf(arr, 1),
				Height: dimOf(arr, 0),
			},
		},
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dimOf reports the height (axis 0) or width (axis 1) of arr.
func dimOf(arr imaging.Array, axis int) int {
	if axis == 0 {
		return len(arr)
	}
	if len(arr) == 0 {
		return 0
	}
	return len(arr[0])
}
