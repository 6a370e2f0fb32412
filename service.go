package feedq

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/schedsim/feedq/extension"
	rmemory "github.com/schedsim/feedq/service/dao/record/memory"
	"github.com/schedsim/feedq/service/dao/scenario"
	smemory "github.com/schedsim/feedq/service/dao/simulation/memory"
	"github.com/schedsim/feedq/service/meta"
	"github.com/schedsim/feedq/service/workload"
)

// Service is the module facade: it wires the scheduler, the DAO layer, the
// scenario loader and the workload kind registry behind functional options.
type Service struct {
	config        *Config
	runtime       *Runtime
	metaService   *meta.Service
	kinds         *extension.Kinds
	metaBaseURL   string
	metaFsOptions []storage.Option
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	s.ensureBaseSetup()
	workload.Register(s.kinds)

	if s.runtime.policy == nil {
		p, err := s.config.schedulerPolicy()
		if err != nil {
			return err
		}
		s.runtime.policy = p
	}
	config, err := s.config.schedulerConfig()
	if err != nil {
		return err
	}
	s.runtime.schedulerConfig = config
	s.runtime.kinds = s.kinds
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.kinds == nil {
		s.kinds = extension.NewKinds()
	}
	if s.runtime.scenarioDAO == nil {
		s.runtime.scenarioDAO = scenario.New(scenario.WithMetaService(s.metaService))
	}
	if s.runtime.simulationDAO == nil {
		s.runtime.simulationDAO = smemory.New()
	}
	if s.runtime.recordDAO == nil {
		s.runtime.recordDAO = rmemory.New()
	}
}

// Kinds returns the workload kind registry.
func (s *Service) Kinds() *extension.Kinds {
	return s.kinds
}

// RegisterKind installs a custom workload builder under the given scenario
// kind, alongside the built-in cpu, io, interactive and phased kinds.
func (s *Service) RegisterKind(kind string, builder extension.Builder) {
	s.kinds.Register(kind, builder)
}

// Runtime returns the simulation runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates the service facade.
func New(options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
