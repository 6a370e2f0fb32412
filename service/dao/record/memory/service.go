package memory

import (
	"context"
	"sync"

	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/dao/criteria"
)

// Service implements an in-memory record storage. All operations are
// thread-safe and return **copies** of the underlying objects to prevent data
// races when callers mutate the returned instances.
type Service struct {
	records map[string]*simulation.Record
	mux     sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[string, simulation.Record] = (*Service)(nil)

// Save persists (a clone of) the supplied record.
func (s *Service) Save(_ context.Context, r *simulation.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.records[r.ID] = r.Clone()
	return nil
}

// Load retrieves a copy of the record or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*simulation.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	r, ok := s.records[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

// Delete removes a record.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.records[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns copies of all records that pass the supplied simulation,
// state and level filters.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*simulation.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*simulation.Record, 0, len(s.records))
	for _, r := range s.records {
		if !criteria.FilterBySimulation(r.SimulationID, parameters) {
			continue
		}
		if !criteria.FilterByState(string(r.GetState()), parameters) {
			continue
		}
		if !criteria.FilterByLevel(r.GetLevel(), parameters) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// New constructor.
func New() *Service {
	return &Service{records: map[string]*simulation.Record{}}
}
