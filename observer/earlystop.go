package observer

import (
	"fmt"

	"github.com/propel-ml/propel/mediator"
)

// EarlyStopperConfig configures the stopping/checkpoint policy.
type EarlyStopperConfig struct {
	// Path locates the monitored scalar inside each epoch report, e.g.
	// ["validator", "feedback", "confusion", "accuracy"].
	Path []string
	// Maximize selects strictly-greater as improvement; otherwise
	// strictly-less.
	Maximize bool
	// Patience is how many consecutive non-improving epochs are
	// tolerated before a stop is requested.
	Patience int
}

// EarlyStopper watches one scalar of every epoch report. A strict
// improvement resets the patience counter and requests a checkpoint of
// the new best; Patience consecutive non-improvements request a stop.
// The first observed value always establishes the baseline best.
type EarlyStopper struct {
	cfg EarlyStopperConfig

	started   bool
	best      float64
	sinceBest int
}

// NewEarlyStopper validates the configuration and returns a stopper.
func NewEarlyStopper(cfg EarlyStopperConfig) (*EarlyStopper, error) {
	if len(cfg.Path) == 0 {
		return nil, fmt.Errorf("%w: early stopper needs a report path", ErrBadConfig)
	}
	if cfg.Patience <= 0 {
		return nil, fmt.Errorf("%w: patience %d must be positive", ErrBadConfig, cfg.Patience)
	}
	return &EarlyStopper{cfg: cfg}, nil
}

// Channels subscribes the stopper to epoch completions.
func (es *EarlyStopper) Channels() []string {
	return []string{mediator.DoneEpoch}
}

// Notify implements the stopping state machine. A report missing the
// configured path is a configuration error surfaced immediately, not
// treated as a non-improving epoch.
func (es *EarlyStopper) Notify(e mediator.Event) ([]Intent, error) {
	value, err := e.Report.Scalar(es.cfg.Path...)
	if err != nil {
		return nil, fmt.Errorf("%w: path %v: %w", ErrReportPath, es.cfg.Path, err)
	}

	if !es.started || es.improved(value) {
		es.started = true
		es.best = value
		es.sinceBest = 0
		return []Intent{{Kind: IntentCheckpoint, Score: value}}, nil
	}

	es.sinceBest++
	if es.sinceBest >= es.cfg.Patience {
		reason := fmt.Sprintf("no improvement at %v for %d epochs (best %g)",
			es.cfg.Path, es.sinceBest, es.best)
		return []Intent{{Kind: IntentStop, Reason: reason}}, nil
	}
	return nil, nil
}

func (es *EarlyStopper) improved(value float64) bool {
	if es.cfg.Maximize {
		return value > es.best
	}
	return value < es.best
}

// Best returns the best value seen so far and whether one exists.
func (es *EarlyStopper) Best() (float64, bool) {
	return es.best, es.started
}

// SinceBest returns the current patience counter.
func (es *EarlyStopper) SinceBest() int {
	return es.sinceBest
}
