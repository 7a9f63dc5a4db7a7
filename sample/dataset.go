// Package sample provides the dataset collaborator interface and the
// batch samplers that drive one epoch of propagation.
package sample

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset is the collaborator interface the core needs: a stable count
// of examples and indexed access to (input, target) pairs. Shape
// metadata lives on concrete implementations and is read once at
// model-construction time, outside the core.
type Dataset interface {
	// Len returns the total number of examples.
	Len() int
	// At returns the input and target vectors of example i.
	At(i int) (input, target []float64, err error)
}

// Batch is one slice of a dataset, assembled into row-major matrices
// with one example per row.
type Batch struct {
	Input  *mat.Dense
	Target *mat.Dense
	// Indices are the dataset positions the rows came from.
	Indices []int
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	r, _ := b.Input.Dims()
	return r
}

// Gather assembles the examples at the given indices into a Batch.
func Gather(ds Dataset, indices []int) (Batch, error) {
	if len(indices) == 0 {
		return Batch{}, fmt.Errorf("sample: %w", ErrEmptyBatch)
	}
	first, firstTarget, err := ds.At(indices[0])
	if err != nil {
		return Batch{}, fmt.Errorf("sample: example %d: %w", indices[0], err)
	}
	input := mat.NewDense(len(indices), len(first), nil)
	target := mat.NewDense(len(indices), len(firstTarget), nil)
	input.SetRow(0, first)
	target.SetRow(0, firstTarget)
	for row, idx := range indices[1:] {
		in, tgt, err := ds.At(idx)
		if err != nil {
			return Batch{}, fmt.Errorf("sample: example %d: %w", idx, err)
		}
		if len(in) != len(first) || len(tgt) != len(firstTarget) {
			return Batch{}, fmt.Errorf("sample: example %d: %w", idx, ErrRaggedExample)
		}
		input.SetRow(row+1, in)
		target.SetRow(row+1, tgt)
	}
	out := make([]int, len(indices))
	copy(out, indices)
	return Batch{Input: input, Target: target, Indices: out}, nil
}

// InMemory is a Dataset backed by slices, with the shape metadata a
// model constructor reads before training starts.
type InMemory struct {
	inputs  [][]float64
	targets [][]float64
}

// NewInMemory builds an in-memory dataset from parallel input/target
// slices.
func NewInMemory(inputs, targets [][]float64) (*InMemory, error) {
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("sample: %d inputs vs %d targets: %w", len(inputs), len(targets), ErrRaggedExample)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("sample: %w", ErrEmptyDataset)
	}
	for i := range inputs {
		if len(inputs[i]) != len(inputs[0]) || len(targets[i]) != len(targets[0]) {
			return nil, fmt.Errorf("sample: example %d: %w", i, ErrRaggedExample)
		}
	}
	return &InMemory{inputs: inputs, targets: targets}, nil
}

// Len returns the number of examples.
func (d *InMemory) Len() int { return len(d.inputs) }

// At returns example i. The returned slices alias the dataset and must
// not be mutated.
func (d *InMemory) At(i int) ([]float64, []float64, error) {
	if i < 0 || i >= len(d.inputs) {
		return nil, nil, fmt.Errorf("sample: index %d of %d: %w", i, len(d.inputs), ErrIndexRange)
	}
	return d.inputs[i], d.targets[i], nil
}

// FeatureSize returns the width of every input vector.
func (d *InMemory) FeatureSize() int { return len(d.inputs[0]) }

// TargetSize returns the width of every target vector.
func (d *InMemory) TargetSize() int { return len(d.targets[0]) }
