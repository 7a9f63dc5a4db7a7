package model

import (
	"fmt"
	"math"

	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// Tanh is a parameter-free elementwise nonlinearity leaf.
type Tanh struct {
	lastOutput *mat.Dense
	prev       *report.Node
}

// NewTanh returns an elementwise tanh leaf.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh elementwise.
func (t *Tanh) Forward(input *mat.Dense) (*mat.Dense, error) {
	rows, cols := input.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, _ int, v float64) float64 { return math.Tanh(v) }, input)
	t.lastOutput = out
	return out, nil
}

// Backward scales gradOutput by 1 - tanh(x)^2 using the saved output.
func (t *Tanh) Backward(gradOutput *mat.Dense) (*mat.Dense, error) {
	if t.lastOutput == nil {
		return nil, fmt.Errorf("tanh: %w", ErrNoForward)
	}
	rows, cols := gradOutput.Dims()
	oRows, oCols := t.lastOutput.Dims()
	if rows != oRows || cols != oCols {
		return nil, fmt.Errorf("%w: tanh gradient is %dx%d, want %dx%d", ErrShape, rows, cols, oRows, oCols)
	}
	gradIn := mat.NewDense(rows, cols, nil)
	gradIn.Apply(func(r, c int, g float64) float64 {
		y := t.lastOutput.At(r, c)
		return g * (1 - y*y)
	}, gradOutput)
	return gradIn, nil
}

// Accept applies v to this leaf. Tanh has no parameters, so most
// visitors treat it as a no-op.
func (t *Tanh) Accept(v Visitor) error {
	return v.Visit(t)
}

// Parameters returns nil; tanh owns no state.
func (t *Tanh) Parameters() []*Param { return nil }

// Report returns an empty node.
func (t *Tanh) Report() *report.Node { return report.New() }

// SetReport hands the model the previous epoch's report.
func (t *Tanh) SetReport(prev *report.Node) { t.prev = prev }
