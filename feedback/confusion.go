package feedback

import (
	"fmt"

	"github.com/propel-ml/propel/report"
	"gonum.org/v1/gonum/mat"
)

// Confusion accumulates a confusion matrix for classification batches.
// The predicted class is the argmax of each output row and the true
// class the argmax of each target row (one-hot encoding).
type Confusion struct {
	classes int
	counts  []int // classes x classes, row = true, col = predicted
	total   int
}

// NewConfusion returns a confusion feedback over the given class count.
func NewConfusion(classes int) (*Confusion, error) {
	if classes < 2 {
		return nil, fmt.Errorf("%w: need at least 2 classes, got %d", ErrShape, classes)
	}
	return &Confusion{classes: classes, counts: make([]int, classes*classes)}, nil
}

// Name keys the feedback subtree.
func (c *Confusion) Name() string { return "confusion" }

// Add tallies one batch.
func (c *Confusion) Add(output, target *mat.Dense) error {
	rows, cols := output.Dims()
	tr, tc := target.Dims()
	if cols != c.classes || tc != c.classes || rows != tr {
		return fmt.Errorf("%w: output %dx%d target %dx%d with %d classes",
			ErrShape, rows, cols, tr, tc, c.classes)
	}
	for r := 0; r < rows; r++ {
		pred := argmaxRow(output, r, cols)
		truth := argmaxRow(target, r, cols)
		c.counts[truth*c.classes+pred]++
		c.total++
	}
	return nil
}

// Report emits accuracy plus raw totals. The key set is fixed.
func (c *Confusion) Report() *report.Node {
	correct := 0
	for i := 0; i < c.classes; i++ {
		correct += c.counts[i*c.classes+i]
	}
	accuracy := 0.0
	if c.total > 0 {
		accuracy = float64(correct) / float64(c.total)
	}
	n := report.New()
	n.SetScalar("accuracy", accuracy)
	n.SetScalar("correct", float64(correct))
	n.SetScalar("total", float64(c.total))
	return n
}

// Reset clears the epoch's tallies.
func (c *Confusion) Reset() {
	for i := range c.counts {
		c.counts[i] = 0
	}
	c.total = 0
}

// Count returns the number of examples of class truth predicted as pred.
func (c *Confusion) Count(truth, pred int) int {
	return c.counts[truth*c.classes+pred]
}

func argmaxRow(m *mat.Dense, row, cols int) int {
	best := 0
	bestVal := m.At(row, 0)
	for c := 1; c < cols; c++ {
		if v := m.At(row, c); v > bestVal {
			bestVal = v
			best = c
		}
	}
	return best
}
