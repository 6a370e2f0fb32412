package feedq

import (
	"github.com/viant/afs/storage"

	"github.com/schedsim/feedq/extension"
	"github.com/schedsim/feedq/policy"
	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/dao/scenario"
	"github.com/schedsim/feedq/service/event"
	"github.com/schedsim/feedq/service/meta"
	"github.com/schedsim/feedq/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service facade.
type Option func(s *Service)

// WithConfig sets the engine configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPolicy overrides the queue-management constants, taking precedence
// over the configuration's policy section
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.runtime.policy = p
	}
}

// WithEventService sets the event service record transitions are published to
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.runtime.eventService = service
	}
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithKinds sets the workload kind registry; the built-in kinds are still
// registered on top
func WithKinds(kinds *extension.Kinds) Option {
	return func(s *Service) {
		s.kinds = kinds
	}
}

// WithScenarioDAO sets the scenario DAO
func WithScenarioDAO(service *scenario.Service) Option {
	return func(s *Service) {
		s.runtime.scenarioDAO = service
	}
}

// WithSimulationDAO sets the simulation DAO
func WithSimulationDAO(service dao.Service[string, simulation.Simulation]) Option {
	return func(s *Service) {
		s.runtime.simulationDAO = service
	}
}

// WithRecordDAO sets the record DAO
func WithRecordDAO(service dao.Service[string, simulation.Record]) Option {
	return func(s *Service) {
		s.runtime.recordDAO = service
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise spans are written to the
// supplied file path. The function is safe to call multiple times; the first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter. This enables integrations with exporters other than the
// built-in stdout exporter, for example OTLP, Jaeger or Zipkin. The function
// is safe to call multiple times; the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
