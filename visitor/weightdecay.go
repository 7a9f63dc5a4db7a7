package visitor

import (
	"fmt"

	"github.com/propel-ml/propel/model"
	"gonum.org/v1/gonum/floats"
)

// WeightDecay adds lambda * value to each gradient (L2 regularization).
// It runs before momentum and learn so the decay flows through both.
type WeightDecay struct {
	lambda float64
}

// NewWeightDecay returns an L2 regularization visitor.
func NewWeightDecay(lambda float64) (*WeightDecay, error) {
	if lambda <= 0 {
		return nil, fmt.Errorf("%w: decay %f must be positive", ErrBadConfig, lambda)
	}
	return &WeightDecay{lambda: lambda}, nil
}

// Name identifies the visitor.
func (w *WeightDecay) Name() string { return "weightDecay" }

// Visit adds the decay term to every gradient of the leaf.
func (w *WeightDecay) Visit(leaf model.Model) error {
	for _, p := range leaf.Parameters() {
		floats.AddScaled(p.Grad, w.lambda, p.Value)
	}
	return nil
}
