package loss

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CrossEntropy treats each output row as class logits and each target
// row as a one-hot (or soft) class distribution. The softmax is fused
// into the criterion, so models emit raw logits.
type CrossEntropy struct{}

// NewCrossEntropy returns a softmax cross-entropy criterion.
func NewCrossEntropy() *CrossEntropy { return &CrossEntropy{} }

// Name identifies the criterion.
func (*CrossEntropy) Name() string { return "crossEntropy" }

// Loss returns -mean over rows of sum(target * logSoftmax(output)).
func (*CrossEntropy) Loss(output, target *mat.Dense) (float64, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, err
	}
	var sum float64
	for r := 0; r < rows; r++ {
		logits := output.RawRowView(r)
		lse := floats.LogSumExp(logits)
		for c := 0; c < cols; c++ {
			if t := target.At(r, c); t != 0 {
				sum -= t * (logits[c] - lse)
			}
		}
	}
	return sum / float64(rows), nil
}

// Grad returns (softmax(output) - target) / rows.
func (*CrossEntropy) Grad(output, target *mat.Dense) (*mat.Dense, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return nil, err
	}
	grad := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		logits := output.RawRowView(r)
		lse := floats.LogSumExp(logits)
		for c := 0; c < cols; c++ {
			p := math.Exp(logits[c] - lse)
			grad.Set(r, c, (p-target.At(r, c))/float64(rows))
		}
	}
	return grad, nil
}
