package sample

import "errors"

var (
	// ErrEmptyDataset indicates a dataset with no examples.
	ErrEmptyDataset = errors.New("dataset has no examples")
	// ErrEmptyBatch indicates a batch gather over zero indices.
	ErrEmptyBatch = errors.New("empty batch indices")
	// ErrRaggedExample indicates examples of inconsistent width.
	ErrRaggedExample = errors.New("inconsistent example shape")
	// ErrIndexRange indicates an example index outside the dataset.
	ErrIndexRange = errors.New("example index out of range")
	// ErrBatchSize indicates a non-positive batch size.
	ErrBatchSize = errors.New("batch size must be positive")
)
