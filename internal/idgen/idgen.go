package idgen

import "github.com/google/uuid"

// NewFunc produces identifiers. Tests may replace it to get stable IDs.
var NewFunc = func() string { return uuid.NewString() }

// New returns a fresh globally unique identifier.
func New() string { return NewFunc() }
