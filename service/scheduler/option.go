package scheduler

import (
	"github.com/schedsim/feedq/policy"
	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/event"
	"github.com/schedsim/feedq/service/messaging"
	"github.com/schedsim/feedq/service/runqueue"
)

type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPolicy sets the queue count and quantum constants
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithName labels the simulation, typically with the scenario name
func WithName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.name = name
		}
	}
}

// WithSimulationDAO sets the simulation store implementation
func WithSimulationDAO(simulationDAO dao.Service[string, simulation.Simulation]) Option {
	return func(s *Service) {
		s.simulationDAO = simulationDAO
	}
}

// WithRecordDAO sets the record store implementation
func WithRecordDAO(recordDAO dao.Service[string, simulation.Record]) Option {
	return func(s *Service) {
		s.recordDAO = recordDAO
	}
}

// WithInterruptQueue sets the interrupt routing queue implementation
func WithInterruptQueue(queue messaging.Queue[runqueue.Interrupt]) Option {
	return func(s *Service) {
		s.interrupts = queue
	}
}

// WithEventService enables record lifecycle events
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}
