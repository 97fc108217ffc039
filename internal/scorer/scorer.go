// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

// Package scorer computes crop quality scores from normalized pixel
// arrays. The Scorer interface keeps the backend swappable: callers see
// the same contract whether the score comes from the color heuristic or
// a future trained model.
package scorer

import (
	"github.com/google/uuid"

	"github.com/cropsense-dev/cropsense/internal/imaging"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// Quality labels, mapped deterministically from the numeric score.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelPoor      = "Poor"
)

// Backend names accepted by New.
const (
	BackendHeuristic = "heuristic"
	BackendModel     = "model"
)

// Dimensions records the normalized pixel dimensions used for scoring.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Details carries auxiliary scoring metadata.
type Details struct {
	Method               string     `json:"method"`
	NormalizedDimensions Dimensions `json:"normalized_dimensions"`
}

// Result is the outcome of a single scoring call. Score is always within
// [0, 100] and QualityLabel is a pure function of Score.
type Result struct {
	RequestID    string  `json:"request_id"`
	Score        float64 `json:"score"`
	QualityLabel string  `json:"quality_label"`
	Details      Details `json:"details"`
}

// Scorer computes a quality score from a normalized array.
type Scorer interface {
	Score(arr imaging.Array) (*Result, error)
}

// Config selects and parameterizes a scoring backend.
type Config struct {
	Backend   string
	ModelPath string
}

// factories maps backend names to constructors. Declared as a variable
// so tests can exercise the unsupported-backend path without touching it.
var factories = map[string]func(Config) Scorer{
	BackendHeuristic: func(Config) Scorer { return &Heuristic{} },
	BackendModel:     func(cfg Config) Scorer { return &ModelBacked{ModelPath: cfg.ModelPath} },
}

// New builds the Scorer selected by cfg.Backend.
func New(cfg Config) (Scorer, error) {
	factory, ok := factories[cfg.Backend]
	if !ok {
		return nil, cserr.New(cserr.CodeScorerUnsupported,
			"unsupported scoring backend: "+cfg.Backend,
			cserr.FieldBackend(cfg.Backend))
	}
	return factory(cfg), nil
}

// newRequestID generates the opaque per-call tracing identifier.
func newRequestID() string {
	return uuid.NewString()
}

// LabelForScore maps a numeric score to its qualitative label.
// Band lower bounds are inclusive.
func LabelForScore(score float64) string {
	switch {
	case score >= 80.0:
		return LabelExcellent
	case score >= 60.0:
		return LabelGood
	case score >= 40.0:
		return LabelFair
	default:
		return LabelPoor
	}
}
