package observer

import "errors"

var (
	// ErrBadConfig indicates an invalid observer configuration.
	ErrBadConfig = errors.New("observer: invalid configuration")
	// ErrReportPath indicates an epoch report missing the monitored
	// path. This is a configuration error, never a non-improvement.
	ErrReportPath = errors.New("observer: report path not found")
)
