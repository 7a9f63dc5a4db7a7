// Package model defines the capability surface the experiment core
// drives: forward/backward computation over batches, visitor-based
// parameter mutation, and per-epoch self-reporting. Models may be
// leaves owning parameter buffers or composites forwarding to children
// in a fixed order.
package model

import (
	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// Param is one mutable parameter buffer with its gradient. Slot is a
// stable identifier assigned once at bind time (see AssignSlots);
// visitors that carry per-parameter state across epochs key it by
// Slot, not by pointer identity.
type Param struct {
	Name  string
	Slot  int
	Value []float64
	Grad  []float64
}

// ZeroGrad clears the gradient buffer.
func (p *Param) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

// Visitor is a named, ordered mutation step over a model's parameter
// and gradient state. Visitors mutate parameters only through Visit;
// models never mutate parameters in Forward or Backward.
//
// The interface lives in this package because models accept visitors
// and visitors operate on models.
type Visitor interface {
	// Name identifies the visitor in reports and errors.
	Name() string
	// Visit applies the mutation step to one leaf model.
	Visit(m Model) error
}

// Model is the opaque computable unit the core propagates over.
//
// Forward maps a batch of inputs (one example per row) to outputs.
// Backward consumes the gradient of the loss with respect to the
// output (produced by a Criterion from the output and target),
// populates the model's gradient buffers, and returns the gradient
// with respect to the input so composites can chain. Accept applies a visitor to
// every leaf in a fixed deterministic order. Report and SetReport let
// a model carry cross-epoch state that is not a visitor's
// responsibility.
type Model interface {
	Forward(input *mat.Dense) (*mat.Dense, error)
	Backward(gradOutput *mat.Dense) (*mat.Dense, error)
	Accept(v Visitor) error
	Parameters() []*Param
	Report() *report.Node
	SetReport(prev *report.Node)
}

// AssignSlots numbers every parameter of m in traversal order. Called
// once when the model is bound to an experiment; the numbering is
// stable across epochs because Parameters returns children in a fixed
// order.
func AssignSlots(m Model) {
	for i, p := range m.Parameters() {
		p.Slot = i
	}
}

// ZeroGrads clears every gradient buffer of m.
func ZeroGrads(m Model) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}
