// Package experiment drives iterative training and evaluation: it owns
// one model, an ordered set of named propagators, the mediator, and
// the observers, and runs the epoch loop until max-epoch exhaustion or
// an observer-requested stop.
package experiment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/propel-ml/propel/checkpoint"
	"github.com/propel-ml/propel/mediator"
	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/observer"
	"github.com/propel-ml/propel/propagate"
	"github.com/propel-ml/propel/report"
	"github.com/propel-ml/propel/sample"
)

// State is the experiment lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// binding pairs a propagator with the dataset name it consumes.
type binding struct {
	name    string
	dataset string
	prop    propagate.Propagator
}

// Experiment is the top-level driver.
type Experiment struct {
	id        string
	m         model.Model
	bindings  []binding
	observers []observer.Observer
	med       *mediator.Mediator
	store     checkpoint.Store

	seed     int64
	maxEpoch int

	state      State
	epoch      int
	stopped    bool
	stopReason string
	subscribed bool
}

// Option configures an Experiment.
type Option func(*Experiment)

// WithID overrides the generated experiment id.
func WithID(id string) Option {
	return func(e *Experiment) { e.id = id }
}

// WithSeed fixes the random seed the shuffled samplers derive their
// per-epoch permutations from.
func WithSeed(seed int64) Option {
	return func(e *Experiment) { e.seed = seed }
}

// WithStore sets the persistence collaborator checkpoint intents are
// saved through. Without a store, checkpoint intents are ignored.
func WithStore(store checkpoint.Store) Option {
	return func(e *Experiment) { e.store = store }
}

// WithObserver registers an observer.
func WithObserver(o observer.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

// New builds an experiment over m running at most maxEpoch epochs.
func New(m model.Model, maxEpoch int, opts ...Option) (*Experiment, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	if maxEpoch <= 0 {
		return nil, fmt.Errorf("%w: max epoch %d", ErrBadConfig, maxEpoch)
	}
	e := &Experiment{
		id:       uuid.NewString(),
		m:        m,
		med:      mediator.New(),
		maxEpoch: maxEpoch,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AddPropagator appends a named propagator bound to the dataset of the
// given name. Propagators run every epoch in the order they were
// added; the optimizer must be added first, because evaluators depend
// on the epoch's freshly updated parameters.
func (e *Experiment) AddPropagator(name, datasetName string, p propagate.Propagator) {
	e.bindings = append(e.bindings, binding{name: name, dataset: datasetName, prop: p})
}

// ID returns the experiment identity snapshots are addressed by.
func (e *Experiment) ID() string { return e.id }

// Epoch returns the number of completed epochs.
func (e *Experiment) Epoch() int { return e.epoch }

// State returns the lifecycle state.
func (e *Experiment) State() State { return e.state }

// StopReason returns why the experiment terminated, once it has.
func (e *Experiment) StopReason() string { return e.stopReason }

// Mediator exposes the bus so external observers can publish or
// subscribe to additional channels.
func (e *Experiment) Mediator() *mediator.Mediator { return e.med }

// Run executes the epoch loop against the datasets in src. It returns
// the final epoch's merged report. Any failure inside a propagator or
// observer aborts the run; epochs are never retried.
func (e *Experiment) Run(src DataSource) (*report.Node, error) {
	if e.state != Idle {
		return nil, fmt.Errorf("%w: state %s", ErrAlreadyRun, e.state)
	}
	if len(e.bindings) == 0 {
		return nil, ErrNoPropagators
	}

	// Bind datasets fail-fast: a propagator configured against an
	// absent dataset is a configuration error, not a skipped pass.
	datasets := make([]sample.Dataset, len(e.bindings))
	for i, b := range e.bindings {
		ds, ok := src.Dataset(b.dataset)
		if !ok {
			e.state = Failed
			return nil, fmt.Errorf("%w: propagator %q needs dataset %q", ErrMissingDataset, b.name, b.dataset)
		}
		datasets[i] = ds
		if seeded, ok := b.prop.Sampler().(sample.Seeded); ok {
			seeded.SetSeed(e.seed)
		}
	}

	model.AssignSlots(e.m)
	e.subscribe()
	e.state = Running

	var root *report.Node
	for e.epoch < e.maxEpoch && !e.stopped {
		e.epoch++

		prev := root
		root = report.New()
		root.SetString("id", e.id)
		root.SetScalar("epoch", float64(e.epoch))

		if prev != nil {
			if mn, err := prev.At("model"); err == nil {
				e.m.SetReport(mn)
			}
		}

		for i, b := range e.bindings {
			sub, err := b.prop.Propagate(e.m, datasets[i], e.epoch)
			if err != nil {
				e.state = Failed
				return nil, fmt.Errorf("experiment %s epoch %d propagator %q: %w", e.id, e.epoch, b.name, err)
			}
			root.SetNode(b.name, sub)
		}
		root.SetNode("model", e.m.Report())

		if err := e.med.Publish(mediator.DoneEpoch, mediator.Event{Epoch: e.epoch, Report: root}); err != nil {
			e.state = Failed
			return nil, fmt.Errorf("experiment %s epoch %d: %w", e.id, e.epoch, err)
		}
	}

	if e.stopReason == "" {
		e.stopReason = fmt.Sprintf("max epochs (%d) reached", e.maxEpoch)
	}
	e.state = Stopped
	if err := e.med.Publish(mediator.DoneExperiment, mediator.Event{
		Epoch:  e.epoch,
		Report: root,
		Reason: e.stopReason,
	}); err != nil {
		e.state = Failed
		return nil, fmt.Errorf("experiment %s: %w", e.id, err)
	}
	return root, nil
}

// subscribe wires every observer's channels to the mediator, routing
// returned intents back through the driver.
func (e *Experiment) subscribe() {
	if e.subscribed {
		return
	}
	e.subscribed = true
	for _, o := range e.observers {
		o := o
		for _, ch := range o.Channels() {
			e.med.Subscribe(ch, func(ev mediator.Event) error {
				intents, err := o.Notify(ev)
				if err != nil {
					return err
				}
				return e.apply(intents, ev)
			})
		}
	}
}

// apply interprets observer intents. Observers never mutate the
// experiment themselves.
func (e *Experiment) apply(intents []observer.Intent, ev mediator.Event) error {
	for _, in := range intents {
		switch in.Kind {
		case observer.IntentStop:
			e.stopped = true
			e.stopReason = in.Reason
		case observer.IntentCheckpoint:
			if e.store == nil {
				continue
			}
			snap := checkpoint.Take(e.id, ev.Epoch, in.Score, e.m, ev.Report)
			if err := e.store.Save(snap, e.id); err != nil {
				return fmt.Errorf("experiment %s epoch %d checkpoint: %w", e.id, ev.Epoch, err)
			}
		}
	}
	return nil
}
