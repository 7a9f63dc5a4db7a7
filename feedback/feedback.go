// Package feedback provides epoch-scoped accumulators of performance
// statistics. A propagator feeds every batch's (output, target) pair
// to its feedback; at epoch end the feedback is folded into the
// propagator's report and reset for the next epoch.
package feedback

import (
	"errors"

	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// ErrShape indicates a batch whose shape the feedback cannot consume.
var ErrShape = errors.New("feedback: unexpected batch shape")

// Feedback accumulates a running statistic over one epoch's batches.
type Feedback interface {
	// Name keys the feedback's subtree in the propagator report.
	Name() string
	// Add consumes one batch's model output and target.
	Add(output, target *mat.Dense) error
	// Report finalizes the epoch's statistic. The key set must be the
	// same every epoch.
	Report() *report.Node
	// Reset clears the accumulator for the next epoch.
	Reset()
}
