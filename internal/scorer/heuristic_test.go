// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package scorer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropsense-dev/cropsense/internal/imaging"
	"github.com/cropsense-dev/cropsense/internal/scorer"
)

// uniformArray builds a height x width array filled with one RGB value.
func uniformArray(height, width int, r, g, b float32) imaging.Array {
	arr := make(imaging.Array, height)
	for y := range arr {
		arr[y] = make([][imaging.Channels]float32, width)
		for x := range arr[y] {
			arr[y][x] = [imaging.Channels]float32{r, g, b}
		}
	}
	return arr
}

func TestHeuristicScore_UniformColors(t *testing.T) {
	h := &scorer.Heuristic{}

	tests := []struct {
		name      string
		r, g, b   float32
		wantScore float64
		wantLabel string
	}{
		// Pure green saturates past the cap and clamps to 100.
		{"green", 0, 1, 0, 100.00, scorer.LabelExcellent},
		// Black: base is (0 - 0.3) * 40 = -12, so 38.
		{"black", 0, 0, 0, 38.00, scorer.LabelPoor},
		// White: 0.3*50 + 0.7*40 + 50 = 93.
		{"white", 1, 1, 1, 93.00, scorer.LabelExcellent},
		// Red: -0.5*50 + (1/3 - 0.3)*40 + 50 = 26.33.
		{"red", 1, 0, 0, 26.33, scorer.LabelPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.Score(uniformArray(imaging.Size, imaging.Size, tt.r, tt.g, tt.b))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, res.Score, 0.01)
			assert.Equal(t, tt.wantLabel, res.QualityLabel)
		})
	}
}

func TestHeuristicScore_ResultShape(t *testing.T) {
	h := &scorer.Heuristic{}

	res, err := h.Score(uniformArray(imaging.Size, imaging.Size, 0.2, 0.6, 0.1))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, "heuristic", res.Details.Method)
	assert.Equal(t, imaging.Size, res.Details.NormalizedDimensions.Width)
	assert.Equal(t, imaging.Size, res.Details.NormalizedDimensions.Height)
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 100.0)
}

func TestHeuristicScore_Deterministic(t *testing.T) {
	h := &scorer.Heuristic{}
	arr := uniformArray(16, 16, 0.3, 0.7, 0.2)

	first, err := h.Score(arr)
	require.NoError(t, err)
	second, err := h.Score(arr)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.QualityLabel, second.QualityLabel)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestHeuristicScore_TwoDecimalRounding(t *testing.T) {
	h := &scorer.Heuristic{}
	res, err := h.Score(uniformArray(7, 7, 0.123, 0.456, 0.789))
	require.NoError(t, err)

	rounded := float64(int(res.Score*100+0.5)) / 100
	assert.InDelta(t, rounded, res.Score, 1e-9)
}

func TestHeuristicScore_EmptyArray(t *testing.T) {
	h := &scorer.Heuristic{}

	res, err := h.Score(imaging.Array{})
	require.NoError(t, err)
	assert.InDelta(t, 38.00, res.Score, 0.01)
	assert.Equal(t, scorer.LabelPoor, res.QualityLabel)
	assert.Equal(t, 0, res.Details.NormalizedDimensions.Width)
	assert.Equal(t, 0, res.Details.NormalizedDimensions.Height)
}
