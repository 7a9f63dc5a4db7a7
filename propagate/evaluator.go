package propagate

import (
	"github.com/propel-ml/propel/feedback"
	"github.com/propel-ml/propel/loss"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/report"
	"github.com/propel-ml/propel/sample"
)

// Evaluator is the read-only propagator: a pure forward pass that
// never calls Backward and never applies visitors. Running it twice
// against the same model state yields identical reports.
type Evaluator struct {
	core
}

// NewEvaluator builds a read-only propagator.
func NewEvaluator(criterion loss.Criterion, sampler sample.Sampler, fb feedback.Feedback) (*Evaluator, error) {
	c, err := newCore(criterion, sampler, fb)
	if err != nil {
		return nil, err
	}
	return &Evaluator{core: c}, nil
}

// Sampler exposes the traversal policy.
func (e *Evaluator) Sampler() sample.Sampler { return e.sampler }

// Propagate runs one evaluation epoch and returns its report subtree.
func (e *Evaluator) Propagate(m model.Model, ds sample.Dataset, epoch int) (*report.Node, error) {
	return e.run(m, ds, epoch, nil)
}
