// Package propagate drives a model through one epoch of a dataset.
// The Optimizer variant updates parameters through an ordered visitor
// pipeline after every batch's backward pass; the Evaluator variant is
// a strictly read-only forward pass, repeatable any number of times on
// the same model state with identical results.
package propagate

import (
	"fmt"

	"github.com/propel-ml/propel/feedback"
	"github.com/propel-ml/propel/loss"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/report"
	"github.com/propel-ml/propel/sample"
	"gonum.org/v1/gonum/mat"
)

// Propagator runs one epoch over a dataset and reports on it.
type Propagator interface {
	// Propagate traverses ds once through m for the given epoch and
	// returns the epoch's report subtree.
	Propagate(m model.Model, ds sample.Dataset, epoch int) (*report.Node, error)
	// Sampler exposes the traversal policy so the experiment can seed it.
	Sampler() sample.Sampler
}

// core is the batch loop shared by Optimizer and Evaluator.
type core struct {
	criterion loss.Criterion
	sampler   sample.Sampler
	feedback  feedback.Feedback // optional
}

func newCore(criterion loss.Criterion, sampler sample.Sampler, fb feedback.Feedback) (core, error) {
	if criterion == nil {
		return core{}, ErrNoCriterion
	}
	if sampler == nil {
		return core{}, ErrNoSampler
	}
	return core{criterion: criterion, sampler: sampler, feedback: fb}, nil
}

// run traverses the dataset once. When train is non-nil it is invoked
// after each batch's forward pass to backpropagate and apply visitors.
func (c *core) run(m model.Model, ds sample.Dataset, epoch int, train func(output *mat.Dense, batch sample.Batch) error) (*report.Node, error) {
	n := ds.Len()
	if n == 0 {
		return nil, fmt.Errorf("propagate: %w", sample.ErrEmptyDataset)
	}

	c.sampler.Start(n, epoch)
	var (
		lossSum  float64
		examples int
		batches  int
	)
	for {
		indices, ok := c.sampler.Next()
		if !ok {
			break
		}
		batch, err := sample.Gather(ds, indices)
		if err != nil {
			return nil, fmt.Errorf("propagate: epoch %d batch %d: %w", epoch, batches, err)
		}
		output, err := m.Forward(batch.Input)
		if err != nil {
			return nil, fmt.Errorf("propagate: epoch %d batch %d forward: %w", epoch, batches, err)
		}
		batchLoss, err := c.criterion.Loss(output, batch.Target)
		if err != nil {
			return nil, fmt.Errorf("propagate: epoch %d batch %d criterion: %w", epoch, batches, err)
		}
		if train != nil {
			if err := train(output, batch); err != nil {
				return nil, fmt.Errorf("propagate: epoch %d batch %d: %w", epoch, batches, err)
			}
		}
		if c.feedback != nil {
			if err := c.feedback.Add(output, batch.Target); err != nil {
				return nil, fmt.Errorf("propagate: epoch %d batch %d feedback: %w", epoch, batches, err)
			}
		}
		size := batch.Size()
		lossSum += batchLoss * float64(size)
		examples += size
		batches++
	}

	node := report.New()
	node.SetScalar("loss", lossSum/float64(examples))
	node.SetScalar("batches", float64(batches))
	node.SetScalar("examples", float64(examples))
	if c.feedback != nil {
		fb := report.New()
		fb.SetNode(c.feedback.Name(), c.feedback.Report())
		node.SetNode("feedback", fb)
		c.feedback.Reset()
	}
	return node, nil
}
