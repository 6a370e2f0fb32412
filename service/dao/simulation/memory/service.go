package memory

import (
	"context"
	"sync"

	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/dao/criteria"
)

// Service implements an in-memory, thread-safe store for simulations. Saving
// over an existing entry copies fields into the stored instance so that
// watchers holding a pointer observe state transitions.
type Service struct {
	simulations map[string]*simulation.Simulation
	mux         sync.RWMutex
}

var _ dao.Service[string, simulation.Simulation] = (*Service)(nil)

func (s *Service) Save(_ context.Context, sim *simulation.Simulation) error {
	if sim == nil {
		return dao.ErrNilEntity
	}
	if sim.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if existing, ok := s.simulations[sim.ID]; ok && existing != nil {
		existing.CopyFrom(sim)
	} else {
		s.simulations[sim.ID] = sim
	}
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*simulation.Simulation, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	sim, ok := s.simulations[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return sim, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.simulations[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.simulations, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*simulation.Simulation, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*simulation.Simulation, 0, len(s.simulations))
	for _, sim := range s.simulations {
		if !criteria.FilterByState(sim.GetState(), parameters) {
			continue
		}
		out = append(out, sim)
	}
	return out, nil
}

func New() *Service {
	return &Service{simulations: map[string]*simulation.Simulation{}}
}
