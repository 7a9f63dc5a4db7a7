package loss

import (
	"gonum.org/v1/gonum/mat"
)

// MSE is mean squared error over every element of the batch.
type MSE struct{}

// NewMSE returns a mean-squared-error criterion.
func NewMSE() *MSE { return &MSE{} }

// Name identifies the criterion.
func (*MSE) Name() string { return "mse" }

// Loss returns mean((output - target)^2).
func (*MSE) Loss(output, target *mat.Dense) (float64, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, err
	}
	var sum float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := output.At(r, c) - target.At(r, c)
			sum += d * d
		}
	}
	return sum / float64(rows*cols), nil
}

// Grad returns 2*(output - target)/n where n counts every element.
func (*MSE) Grad(output, target *mat.Dense) (*mat.Dense, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return nil, err
	}
	n := float64(rows * cols)
	grad := mat.NewDense(rows, cols, nil)
	grad.Sub(output, target)
	grad.Scale(2/n, grad)
	return grad, nil
}
