package experiment

import "errors"

var (
	// ErrNoModel indicates an experiment built without a model.
	ErrNoModel = errors.New("experiment: model is required")
	// ErrNoPropagators indicates Run was called with nothing to run.
	ErrNoPropagators = errors.New("experiment: at least one propagator is required")
	// ErrMissingDataset indicates a propagator bound to a dataset the
	// data source does not provide.
	ErrMissingDataset = errors.New("experiment: dataset not found")
	// ErrBadConfig indicates an out-of-range experiment setting.
	ErrBadConfig = errors.New("experiment: invalid configuration")
	// ErrAlreadyRun indicates a second Run on the same experiment.
	ErrAlreadyRun = errors.New("experiment: already run")
)
