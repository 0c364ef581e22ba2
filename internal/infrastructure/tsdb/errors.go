package tsdb

import "errors"

var (
	// ErrInvalidRange indicates a non-positive day range was requested.
	ErrInvalidRange = errors.New("tsdb: invalid day range")

	// ErrInvalidSample indicates a sample with no farm or negative volume.
	ErrInvalidSample = errors.New("tsdb: invalid sample")
)
