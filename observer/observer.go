// Package observer provides the components that react to lifecycle
// events published on the mediator. Observers never reach into the
// experiment directly: they return intents, and the experiment driver
// interprets them centrally.
package observer

import (
	"github.com/propel-ml/propel/mediator"
)

// IntentKind enumerates the actions an observer may request.
type IntentKind int

const (
	// IntentStop requests cooperative termination at the epoch boundary.
	IntentStop IntentKind = iota
	// IntentCheckpoint requests a snapshot of the current best state.
	IntentCheckpoint
)

func (k IntentKind) String() string {
	switch k {
	case IntentStop:
		return "stop"
	case IntentCheckpoint:
		return "checkpoint"
	default:
		return "unknown"
	}
}

// Intent is one requested action together with its context.
type Intent struct {
	Kind   IntentKind
	Reason string
	// Score is the metric value that triggered a checkpoint intent.
	Score float64
}

// Observer subscribes to mediator channels and reacts to events. A
// returned error propagates synchronously to the publisher and aborts
// the epoch loop; intents are applied by the experiment after the
// handler returns.
type Observer interface {
	// Channels names the mediator channels the observer listens on.
	Channels() []string
	// Notify handles one event and returns any requested intents.
	Notify(e mediator.Event) ([]Intent, error)
}
