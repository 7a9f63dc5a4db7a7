// Package checkpoint persists the best-seen experiment state. A
// snapshot is addressed by experiment id; saving under the same id
// replaces the prior best, and a failed save never corrupts it.
package checkpoint

import (
	"fmt"
	"time"

	"github.com/propel-ml/propel/model"
	"github.com/propel-ml/propel/report"
)

// ParamState is one parameter buffer's saved values.
type ParamState struct {
	Name  string    `json:"name"`
	Slot  int       `json:"slot"`
	Value []float64 `json:"value"`
}

// Snapshot is a persisted copy of an experiment's best-seen state:
// identity, progress, score, parameter values, and the report that
// earned it.
type Snapshot struct {
	ExperimentID string       `json:"experiment_id"`
	Epoch        int          `json:"epoch"`
	Score        float64      `json:"score"`
	SavedAt      time.Time    `json:"saved_at"`
	Params       []ParamState `json:"params"`
	Report       *report.Node `json:"report,omitempty"`
}

// Take captures the current parameter values of m into a snapshot.
func Take(experimentID string, epoch int, score float64, m model.Model, r *report.Node) *Snapshot {
	params := m.Parameters()
	states := make([]ParamState, len(params))
	for i, p := range params {
		v := make([]float64, len(p.Value))
		copy(v, p.Value)
		states[i] = ParamState{Name: p.Name, Slot: p.Slot, Value: v}
	}
	return &Snapshot{
		ExperimentID: experimentID,
		Epoch:        epoch,
		Score:        score,
		SavedAt:      time.Now(),
		Params:       states,
		Report:       r,
	}
}

// Restore copies the snapshot's parameter values back into m. The
// model must have the same slot layout the snapshot was taken from.
func (s *Snapshot) Restore(m model.Model) error {
	params := m.Parameters()
	if len(params) != len(s.Params) {
		return fmt.Errorf("%w: model has %d parameters, snapshot has %d",
			ErrMismatch, len(params), len(s.Params))
	}
	for i, p := range params {
		saved := s.Params[i]
		if p.Slot != saved.Slot || len(p.Value) != len(saved.Value) {
			return fmt.Errorf("%w: parameter %d (slot %d, %d values) vs snapshot (slot %d, %d values)",
				ErrMismatch, i, p.Slot, len(p.Value), saved.Slot, len(saved.Value))
		}
		copy(p.Value, saved.Value)
	}
	return nil
}

// Store is the persistence collaborator the early stopper relies on.
// Save must be atomic with respect to the prior snapshot for the same
// id: on failure the old best remains readable.
type Store interface {
	Save(s *Snapshot, id string) error
	Load(id string) (*Snapshot, error)
}
