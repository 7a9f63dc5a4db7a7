package sample

import (
	"math/rand"
)

// Sampler produces a lazy, finite sequence of example-index batches
// covering a dataset exactly once per traversal. Start begins a fresh
// traversal; Next returns the next batch of indices until the dataset
// is exhausted. The final partial batch is still emitted when the
// dataset length is not a multiple of the batch size.
type Sampler interface {
	// Start begins a new traversal over n examples for the given epoch.
	Start(n, epoch int)
	// Next returns the next batch of example indices, or false when the
	// traversal is complete.
	Next() ([]int, bool)
	// BatchSize returns the configured batch size.
	BatchSize() int
}

// Seeded is implemented by samplers whose traversal order depends on
// the experiment's random seed. The experiment sets the seed once at
// dataset-binding time.
type Seeded interface {
	SetSeed(seed int64)
}

// Sequential yields batches in dataset order.
type Sequential struct {
	batchSize int
	order     []int
	pos       int
}

// NewSequential returns a Sampler that preserves dataset order.
func NewSequential(batchSize int) *Sequential {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sequential{batchSize: batchSize}
}

// Start begins a fresh in-order traversal over n examples.
func (s *Sequential) Start(n, epoch int) {
	if cap(s.order) < n {
		s.order = make([]int, n)
	}
	s.order = s.order[:n]
	for i := range s.order {
		s.order[i] = i
	}
	s.pos = 0
}

// Next returns the next contiguous batch of indices.
func (s *Sequential) Next() ([]int, bool) {
	return nextSlice(s.order, &s.pos, s.batchSize)
}

// BatchSize returns the configured batch size.
func (s *Sequential) BatchSize() int { return s.batchSize }

// Shuffled yields batches drawn from a fresh permutation of the
// example indices. The permutation is regenerated on every Start,
// seeded deterministically from (seed, epoch): two traversals of the
// same epoch with the same seed produce identical batch sequences.
type Shuffled struct {
	batchSize int
	seed      int64
	perm      []int
	pos       int
}

// NewShuffled returns a Sampler that re-shuffles every epoch.
func NewShuffled(batchSize int) *Shuffled {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Shuffled{batchSize: batchSize}
}

// SetSeed fixes the base seed the per-epoch permutations derive from.
func (s *Shuffled) SetSeed(seed int64) { s.seed = seed }

// Start begins a fresh shuffled traversal over n examples.
func (s *Shuffled) Start(n, epoch int) {
	// Mix seed and epoch so every epoch gets an independent stream
	// while the (seed, epoch) pair stays reproducible.
	src := rand.NewSource(s.seed ^ int64(uint64(epoch)*0x9E3779B97F4A7C15))
	s.perm = rand.New(src).Perm(n)
	s.pos = 0
}

// Next returns the next contiguous slice of the epoch's permutation.
func (s *Shuffled) Next() ([]int, bool) {
	return nextSlice(s.perm, &s.pos, s.batchSize)
}

// BatchSize returns the configured batch size.
func (s *Shuffled) BatchSize() int { return s.batchSize }

// nextSlice advances pos through order by batchSize.
func nextSlice(order []int, pos *int, batchSize int) ([]int, bool) {
	if *pos >= len(order) {
		return nil, false
	}
	end := *pos + batchSize
	if end > len(order) {
		end = len(order)
	}
	batch := order[*pos:end]
	*pos = end
	return batch, true
}

// Batches returns how many batches one traversal over n examples
// yields at the given batch size.
func Batches(n, batchSize int) int {
	if batchSize <= 0 {
		return 0
	}
	return (n + batchSize - 1) / batchSize
}
