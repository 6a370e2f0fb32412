package dao

import "errors"

// Sentinel errors let callers detect storage conditions with errors.Is
// instead of brittle string comparisons.

var (
	// ErrNotFound reports that the requested entity does not exist.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID reports an empty or otherwise unusable entity key.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity reports an attempt to persist a nil pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)
