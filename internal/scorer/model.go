// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package scorer

import (
	"github.com/cropsense-dev/cropsense/internal/imaging"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// ModelBacked is the reserved trained-model scoring backend. Configuring
// it is a deployment misconfiguration until a model integration lands:
// it never silently falls back to the heuristic.
type ModelBacked struct {
	ModelPath string
}

var _ Scorer = (*ModelBacked)(nil)

// Score always fails with a not-implemented error.
func (m *ModelBacked) Score(_ imaging.Array) (*Result, error) {
	return nil, cserr.New(cserr.CodeModelNotImplemented,
		"model-based prediction is not implemented yet",
		cserr.Field("model_path", m.ModelPath))
}
