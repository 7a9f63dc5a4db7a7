package visitor

import "errors"

var (
	// ErrBadConfig indicates an out-of-range visitor hyperparameter.
	ErrBadConfig = errors.New("visitor: invalid configuration")
	// ErrStaleState indicates per-slot state that no longer matches the
	// parameter set it was initialized against.
	ErrStaleState = errors.New("visitor: state does not match parameter set")
)
