package visitor

import (
	"fmt"

	"github.com/propel-ml/propel/model"
	"gonum.org/v1/gonum/floats"
)

// MaxNorm rescales any parameter buffer whose L2 norm exceeds max back
// onto the max-norm ball. It runs after the learn step.
type MaxNorm struct {
	max float64
}

// NewMaxNorm returns a norm-clamping visitor.
func NewMaxNorm(max float64) (*MaxNorm, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: max norm %f must be positive", ErrBadConfig, max)
	}
	return &MaxNorm{max: max}, nil
}

// Name identifies the visitor.
func (m *MaxNorm) Name() string { return "maxNorm" }

// Visit clamps each parameter buffer of the leaf.
func (m *MaxNorm) Visit(leaf model.Model) error {
	for _, p := range leaf.Parameters() {
		norm := floats.Norm(p.Value, 2)
		if norm > m.max {
			floats.Scale(m.max/norm, p.Value)
		}
	}
	return nil
}
