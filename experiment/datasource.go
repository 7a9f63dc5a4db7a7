package experiment

import "github.com/propel-ml/propel/sample"

// Conventional dataset names propagators bind against.
const (
	TrainSet = "train"
	ValidSet = "valid"
	TestSet  = "test"
)

// DataSource resolves the named datasets an experiment's propagators
// were declared against.
type DataSource interface {
	// Dataset returns the dataset registered under name.
	Dataset(name string) (sample.Dataset, bool)
}

// MapSource is the simplest DataSource: a name-to-dataset map.
type MapSource map[string]sample.Dataset

// Dataset implements DataSource.
func (m MapSource) Dataset(name string) (sample.Dataset, bool) {
	ds, ok := m[name]
	return ds, ok
}
