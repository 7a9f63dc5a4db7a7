package visitor

import "math"

// LRScheduler maps an epoch number to a learning rate. Schedulers are
// pure functions of (epoch, base rate); they hold no mutable state.
type LRScheduler interface {
	// LR returns the learning rate for the given 1-based epoch.
	LR(epoch int, base float64) float64
	// Name returns the scheduler name for reports.
	Name() string
}

// StepLR reduces the rate by a factor of gamma every stepSize epochs.
type StepLR struct {
	StepSize int
	Gamma    float64
}

// NewStepLR creates a step scheduler, defaulting stepSize to 30 and
// gamma to 0.1 when given out-of-range values.
func NewStepLR(stepSize int, gamma float64) *StepLR {
	if stepSize <= 0 {
		stepSize = 30
	}
	if gamma <= 0 || gamma >= 1 {
		gamma = 0.1
	}
	return &StepLR{StepSize: stepSize, Gamma: gamma}
}

func (s *StepLR) LR(epoch int, base float64) float64 {
	if epoch < 1 {
		epoch = 1
	}
	return base * math.Pow(s.Gamma, float64((epoch-1)/s.StepSize))
}

func (s *StepLR) Name() string { return "StepLR" }

// ExponentialLR decays the rate by gamma every epoch.
type ExponentialLR struct {
	Gamma float64
}

// NewExponentialLR creates an exponential scheduler, defaulting gamma
// to 0.95 when given an out-of-range value.
func NewExponentialLR(gamma float64) *ExponentialLR {
	if gamma <= 0 || gamma >= 1 {
		gamma = 0.95
	}
	return &ExponentialLR{Gamma: gamma}
}

func (e *ExponentialLR) LR(epoch int, base float64) float64 {
	if epoch < 1 {
		epoch = 1
	}
	return base * math.Pow(e.Gamma, float64(epoch-1))
}

func (e *ExponentialLR) Name() string { return "ExponentialLR" }
