package checkpoint

import "errors"

var (
	// ErrNotFound indicates no snapshot exists for the requested id.
	ErrNotFound = errors.New("snapshot not found")
	// ErrMismatch indicates a snapshot restored into a model with a
	// different parameter layout.
	ErrMismatch = errors.New("snapshot does not match model")
)
