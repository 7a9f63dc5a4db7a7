// Package visitor implements the ordered parameter-mutation steps an
// optimizer applies after each backward pass. Visitors run strictly in
// the order the optimizer lists them; that order is a correctness
// contract (momentum blending must precede the learn step, norm
// clamping must follow it).
package visitor

import "github.com/propel-ml/propel/model"

// EpochAware visitors are told the epoch number before the first batch
// of every epoch. The learn visitor uses it to drive its scheduler.
type EpochAware interface {
	StartEpoch(epoch int)
}

// StartEpoch notifies every epoch-aware visitor in vs.
func StartEpoch(vs []model.Visitor, epoch int) {
	for _, v := range vs {
		if ea, ok := v.(EpochAware); ok {
			ea.StartEpoch(epoch)
		}
	}
}
