package propagate

import "errors"

var (
	// ErrNoCriterion indicates a propagator built without a criterion.
	ErrNoCriterion = errors.New("propagate: criterion is required")
	// ErrNoSampler indicates a propagator built without a sampler.
	ErrNoSampler = errors.New("propagate: sampler is required")
	// ErrNoVisitors indicates an optimizer with an empty visitor list.
	ErrNoVisitors = errors.New("propagate: optimizer needs at least one visitor")
)
