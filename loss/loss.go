// Package loss provides the criterion collaborators a propagator
// scores batches with. A Criterion both measures a batch and seeds
// backpropagation: Grad produces the gradient of the loss with respect
// to the model output, which Model.Backward then chains through the
// composite.
package loss

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape indicates output and target dimensions that do not agree.
var ErrShape = errors.New("loss: output/target shape mismatch")

// Criterion scores one batch of (output, target) rows.
type Criterion interface {
	// Name identifies the criterion in reports.
	Name() string
	// Loss returns the scalar loss for the batch.
	Loss(output, target *mat.Dense) (float64, error)
	// Grad returns the gradient of the loss with respect to output.
	Grad(output, target *mat.Dense) (*mat.Dense, error)
}

func checkShapes(output, target *mat.Dense) (rows, cols int, err error) {
	r, c := output.Dims()
	tr, tc := target.Dims()
	if r != tr || c != tc {
		return 0, 0, fmt.Errorf("%w: output %dx%d vs target %dx%d", ErrShape, r, c, tr, tc)
	}
	return r, c, nil
}
