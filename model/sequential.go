package model

import (
	"fmt"

	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// Sequential chains child models in a fixed order. Forward feeds each
// child's output to the next; Backward chains input gradients in
// reverse; Accept visits children front to back so visitor state keyed
// by parameter slot is stable across epochs.
type Sequential struct {
	children []Model
	prev     *report.Node
}

// NewSequential builds a composite over the given children.
func NewSequential(children ...Model) (*Sequential, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: sequential needs at least one child", ErrBadDims)
	}
	return &Sequential{children: children}, nil
}

// Forward runs the children in order.
func (s *Sequential) Forward(input *mat.Dense) (*mat.Dense, error) {
	cur := input
	for i, child := range s.children {
		out, err := child.Forward(cur)
		if err != nil {
			return nil, fmt.Errorf("sequential child %d: %w", i, err)
		}
		cur = out
	}
	return cur, nil
}

// Backward runs the children in reverse, chaining input gradients.
func (s *Sequential) Backward(gradOutput *mat.Dense) (*mat.Dense, error) {
	cur := gradOutput
	for i := len(s.children) - 1; i >= 0; i-- {
		grad, err := s.children[i].Backward(cur)
		if err != nil {
			return nil, fmt.Errorf("sequential child %d: %w", i, err)
		}
		cur = grad
	}
	return cur, nil
}

// Accept forwards the visitor to every child, front to back.
func (s *Sequential) Accept(v Visitor) error {
	for i, child := range s.children {
		if err := child.Accept(v); err != nil {
			return fmt.Errorf("sequential child %d: %w", i, err)
		}
	}
	return nil
}

// Parameters concatenates the children's parameters in child order.
func (s *Sequential) Parameters() []*Param {
	var params []*Param
	for _, child := range s.children {
		params = append(params, child.Parameters()...)
	}
	return params
}

// Report aggregates each child's report under its position.
func (s *Sequential) Report() *report.Node {
	n := report.New()
	for i, child := range s.children {
		n.SetNode(fmt.Sprintf("%d", i), child.Report())
	}
	return n
}

// SetReport distributes the previous report to the children it was
// aggregated from.
func (s *Sequential) SetReport(prev *report.Node) {
	s.prev = prev
	if prev == nil {
		return
	}
	for i, child := range s.children {
		if sub, err := prev.At(fmt.Sprintf("%d", i)); err == nil {
			child.SetReport(sub)
		}
	}
}
