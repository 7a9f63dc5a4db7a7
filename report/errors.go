package report

import "errors"

var (
	// ErrNoSuchKey indicates a lookup path names a key that is absent.
	ErrNoSuchKey = errors.New("report: no such key")
	// ErrWrongKind indicates a lookup path reached an entry of the wrong kind.
	ErrWrongKind = errors.New("report: wrong entry kind")
)
