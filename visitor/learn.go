package visitor

import (
	"fmt"

	"github.com/propel-ml/propel/model"
	"gonum.org/v1/gonum/floats"
)

// Learn is the gradient-descent step: value -= lr * gradient. An
// optional scheduler adjusts the effective rate at each epoch start.
type Learn struct {
	baseLR    float64
	effective float64
	scheduler LRScheduler
}

// NewLearn returns a learn visitor with a fixed learning rate.
func NewLearn(lr float64) (*Learn, error) {
	if lr <= 0 {
		return nil, fmt.Errorf("%w: learning rate %f must be positive", ErrBadConfig, lr)
	}
	return &Learn{baseLR: lr, effective: lr}, nil
}

// NewScheduledLearn returns a learn visitor whose rate is recomputed
// from sched at the start of every epoch.
func NewScheduledLearn(lr float64, sched LRScheduler) (*Learn, error) {
	l, err := NewLearn(lr)
	if err != nil {
		return nil, err
	}
	l.scheduler = sched
	return l, nil
}

// Name identifies the visitor.
func (l *Learn) Name() string { return "learn" }

// StartEpoch recomputes the effective learning rate for the epoch.
func (l *Learn) StartEpoch(epoch int) {
	if l.scheduler != nil {
		l.effective = l.scheduler.LR(epoch, l.baseLR)
	}
}

// LR returns the learning rate currently in effect.
func (l *Learn) LR() float64 { return l.effective }

// Visit applies value -= lr * gradient to every parameter of the leaf.
func (l *Learn) Visit(leaf model.Model) error {
	for _, p := range leaf.Parameters() {
		floats.AddScaled(p.Value, -l.effective, p.Grad)
	}
	return nil
}
