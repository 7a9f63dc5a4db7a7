package propagate

import (
	"fmt"

	"github.com/propel-ml/propel/feedback"
	"github.com/propel-ml/propel/loss"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/report"
	"github.com/propel-ml/propel/sample"
	"github.com/propel-ml/propel/visitor"
	"gonum.org/v1/gonum/mat"
)

// Optimizer is the training propagator: after each batch's forward
// pass it seeds backpropagation from the criterion gradient and then
// applies its visitors strictly in list order. The order is a
// user-stated correctness contract, not a cosmetic choice.
type Optimizer struct {
	core
	visitors []model.Visitor
}

// NewOptimizer builds a training propagator. At least one visitor is
// required; an optimizer that never mutates parameters is a
// configuration error.
func NewOptimizer(criterion loss.Criterion, sampler sample.Sampler, fb feedback.Feedback, visitors ...model.Visitor) (*Optimizer, error) {
	c, err := newCore(criterion, sampler, fb)
	if err != nil {
		return nil, err
	}
	if len(visitors) == 0 {
		return nil, ErrNoVisitors
	}
	return &Optimizer{core: c, visitors: visitors}, nil
}

// Sampler exposes the traversal policy.
func (o *Optimizer) Sampler() sample.Sampler { return o.sampler }

// Propagate runs one training epoch and returns its report subtree.
func (o *Optimizer) Propagate(m model.Model, ds sample.Dataset, epoch int) (*report.Node, error) {
	visitor.StartEpoch(o.visitors, epoch)
	return o.run(m, ds, epoch, func(output *mat.Dense, batch sample.Batch) error {
		model.ZeroGrads(m)
		gradOut, err := o.criterion.Grad(output, batch.Target)
		if err != nil {
			return fmt.Errorf("criterion gradient: %w", err)
		}
		if _, err := m.Backward(gradOut); err != nil {
			return fmt.Errorf("backward: %w", err)
		}
		for _, v := range o.visitors {
			if err := m.Accept(v); err != nil {
				return fmt.Errorf("visitor %s: %w", v.Name(), err)
			}
		}
		return nil
	})
}
