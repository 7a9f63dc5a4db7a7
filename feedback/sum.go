package feedback

import (
	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// Sum accumulates the sum of every model output element seen during an
// epoch. Useful for checking that a frozen model produces identical
// epoch totals, and as the simplest possible feedback.
type Sum struct {
	sum     float64
	batches int
}

// NewSum returns a summing feedback.
func NewSum() *Sum { return &Sum{} }

// Name keys the feedback subtree.
func (s *Sum) Name() string { return "sum" }

// Add accumulates every element of the batch output.
func (s *Sum) Add(output, target *mat.Dense) error {
	s.sum += mat.Sum(output)
	s.batches++
	return nil
}

// Report emits the epoch total and batch count.
func (s *Sum) Report() *report.Node {
	n := report.New()
	n.SetScalar("total", s.sum)
	n.SetScalar("batches", float64(s.batches))
	return n
}

// Reset clears the accumulator.
func (s *Sum) Reset() {
	s.sum = 0
	s.batches = 0
}
