package model

import "errors"

var (
	// ErrShape indicates an input batch whose width does not match the model.
	ErrShape = errors.New("model: input shape mismatch")
	// ErrNoForward indicates Backward was called before any Forward.
	ErrNoForward = errors.New("model: backward before forward")
	// ErrBadDims indicates invalid construction dimensions.
	ErrBadDims = errors.New("model: dimensions must be positive")
)
