// Package dao defines the persistence contract shared by the simulation,
// record and scenario stores, together with the filter parameters their
// List operations accept.
package dao

import (
	"context"
)

// Service is the generic persistence contract. K is the entity key type, T
// the entity itself. Implementations are safe for concurrent use; absent
// entities surface as ErrNotFound and key or entity violations as
// ErrInvalidID and ErrNilEntity.
type Service[K comparable, T any] interface {
	// Save stores or overwrites the entity
	Save(ctx context.Context, t *T) error

	// Load retrieves an entity by its key
	Load(ctx context.Context, id K) (*T, error)

	// Delete removes an entity by its key
	Delete(ctx context.Context, id K) error

	// List returns entities matching the optional filter parameters
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
