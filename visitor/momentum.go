package visitor

import (
	"fmt"

	"github.com/propel-ml/propel/model"
	"gonum.org/v1/gonum/floats"
)

// Momentum blends each gradient with a velocity carried across epochs.
// The velocity arena is keyed by parameter slot, so it survives any
// re-traversal of the same model but must not be shared between
// models with different slot assignments.
type Momentum struct {
	coeff    float64
	velocity map[int][]float64
}

// NewMomentum returns a momentum visitor with the given coefficient.
func NewMomentum(coeff float64) (*Momentum, error) {
	if coeff < 0 || coeff >= 1 {
		return nil, fmt.Errorf("%w: momentum coefficient %f outside [0, 1)", ErrBadConfig, coeff)
	}
	return &Momentum{coeff: coeff, velocity: make(map[int][]float64)}, nil
}

// Name identifies the visitor.
func (m *Momentum) Name() string { return "momentum" }

// Visit replaces each gradient with coeff*velocity + gradient and
// stores the result as the new velocity. The first visit of a slot
// seeds the velocity with the raw gradient.
func (m *Momentum) Visit(leaf model.Model) error {
	for _, p := range leaf.Parameters() {
		v, ok := m.velocity[p.Slot]
		if !ok {
			v = make([]float64, len(p.Grad))
			copy(v, p.Grad)
			m.velocity[p.Slot] = v
			continue
		}
		if len(v) != len(p.Grad) {
			return fmt.Errorf("%w: slot %d velocity has %d entries, gradient has %d",
				ErrStaleState, p.Slot, len(v), len(p.Grad))
		}
		floats.Scale(m.coeff, v)
		floats.Add(v, p.Grad)
		copy(p.Grad, v)
	}
	return nil
}
