package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Affine is a fully-connected leaf: output = input*W^T + b. Its weight
// matrix views the Param buffer directly, so visitor mutations are
// visible on the next Forward without copying.
type Affine struct {
	in, out int

	weight *Param
	bias   *Param
	w      *mat.Dense // views weight.Value

	lastInput *mat.Dense
	prev      *report.Node
}

// NewAffine builds an in->out affine leaf with weights drawn uniformly
// from [-1/sqrt(in), 1/sqrt(in)] using rng, and zero bias.
func NewAffine(in, out int, rng *rand.Rand) (*Affine, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: in=%d out=%d", ErrBadDims, in, out)
	}
	wv := make([]float64, in*out)
	bound := 1 / math.Sqrt(float64(in))
	for i := range wv {
		wv[i] = (rng.Float64()*2 - 1) * bound
	}
	a := &Affine{
		in:     in,
		out:    out,
		weight: &Param{Name: "weight", Value: wv, Grad: make([]float64, in*out)},
		bias:   &Param{Name: "bias", Value: make([]float64, out), Grad: make([]float64, out)},
	}
	a.w = mat.NewDense(out, in, a.weight.Value)
	return a, nil
}

// Forward computes input*W^T + b for a batch with one example per row.
func (a *Affine) Forward(input *mat.Dense) (*mat.Dense, error) {
	rows, cols := input.Dims()
	if cols != a.in {
		return nil, fmt.Errorf("%w: affine expects %d features, got %d", ErrShape, a.in, cols)
	}
	out := mat.NewDense(rows, a.out, nil)
	out.Mul(input, a.w.T())
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		floats.Add(row, a.bias.Value)
	}
	a.lastInput = input
	return out, nil
}

// Backward accumulates weight and bias gradients from gradOutput and
// returns the gradient with respect to the input.
func (a *Affine) Backward(gradOutput *mat.Dense) (*mat.Dense, error) {
	if a.lastInput == nil {
		return nil, fmt.Errorf("affine: %w", ErrNoForward)
	}
	rows, cols := gradOutput.Dims()
	inRows, _ := a.lastInput.Dims()
	if cols != a.out || rows != inRows {
		return nil, fmt.Errorf("%w: affine gradient is %dx%d, want %dx%d", ErrShape, rows, cols, inRows, a.out)
	}

	gradW := mat.NewDense(a.out, a.in, nil)
	gradW.Mul(gradOutput.T(), a.lastInput)
	floats.Add(a.weight.Grad, rawData(gradW))

	for r := 0; r < rows; r++ {
		floats.Add(a.bias.Grad, gradOutput.RawRowView(r))
	}

	gradIn := mat.NewDense(rows, a.in, nil)
	gradIn.Mul(gradOutput, a.w)
	return gradIn, nil
}

// Accept applies v to this leaf.
func (a *Affine) Accept(v Visitor) error {
	return v.Visit(a)
}

// Parameters returns the weight then the bias buffer.
func (a *Affine) Parameters() []*Param {
	return []*Param{a.weight, a.bias}
}

// Report contributes the parameter norms; the key set is fixed so the
// epoch report shape stays stable.
func (a *Affine) Report() *report.Node {
	n := report.New()
	n.SetScalar("weightNorm", floats.Norm(a.weight.Value, 2))
	n.SetScalar("biasNorm", floats.Norm(a.bias.Value, 2))
	return n
}

// SetReport hands the model the previous epoch's report.
func (a *Affine) SetReport(prev *report.Node) { a.prev = prev }

// rawData exposes the backing slice of a dense matrix.
func rawData(m *mat.Dense) []float64 {
	return m.RawMatrix().Data
}
