package model

import (
	"fmt"
	"time"
)

// Scenario represents a declarative workload definition: a named set of
// synthetic processes together with optional scheduler tuning.
type Scenario struct {

	// Source provides information about the origin of the scenario
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`

	// Name is the unique identifier for the scenario
	Name string `json:"name" yaml:"name"`

	// Description provides a human-readable description of the scenario
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Scheduler optionally overrides scheduler constants for this scenario
	Scheduler *Tuning `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`

	// Processes defines the workload submitted at simulation start
	Processes []*ProcessSpec `json:"processes,omitempty" yaml:"processes,omitempty"`
}

// Tuning overrides scheduler constants for a single scenario. Durations are
// expressed as time.ParseDuration strings, e.g. "10ms".
type Tuning struct {
	// Levels is the count of CPU priority tiers
	Levels int `json:"levels,omitempty" yaml:"levels,omitempty"`

	// BaseQuantum is the quantum granted at the highest priority level
	BaseQuantum string `json:"baseQuantum,omitempty" yaml:"baseQuantum,omitempty"`

	// QuantumStep is added to the quantum once per level below the highest
	QuantumStep string `json:"quantumStep,omitempty" yaml:"quantumStep,omitempty"`

	// BlockingQuantum is the quantum granted by the blocking queue
	BlockingQuantum string `json:"blockingQuantum,omitempty" yaml:"blockingQuantum,omitempty"`

	// TickInterval paces the dispatch loop
	TickInterval string `json:"tickInterval,omitempty" yaml:"tickInterval,omitempty"`
}

// ProcessSpec declares a single synthetic process. Kind selects a registered
// workload builder; the remaining fields parameterize it.
type ProcessSpec struct {
	// Name is the process name, unique within the scenario
	Name string `json:"name" yaml:"name"`

	// Kind selects the workload builder, e.g. cpu, io, interactive, phased
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Burst is the CPU burst duration for burst-driven kinds
	Burst string `json:"burst,omitempty" yaml:"burst,omitempty"`

	// IO is the blocking phase duration for kinds that block
	IO string `json:"io,omitempty" yaml:"io,omitempty"`

	// Cycles is the number of CPU/blocking repetitions for kinds that block
	Cycles int `json:"cycles,omitempty" yaml:"cycles,omitempty"`

	// Phases declares an explicit phase list for the phased kind
	Phases []*PhaseSpec `json:"phases,omitempty" yaml:"phases,omitempty"`
}

// PhaseSpec declares one phase of a phased process.
type PhaseSpec struct {
	// Kind is cpu or io
	Kind string `json:"kind" yaml:"kind"`

	// Duration is the phase length, e.g. "5ms"
	Duration string `json:"duration" yaml:"duration"`
}

// Source describes where a scenario was loaded from.
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ParseDuration parses a scenario duration string such as "10ms". The field
// name is used in error messages only.
func ParseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration %q: %w", field, value, err)
	}
	if result < 0 {
		return 0, fmt.Errorf("%s duration cannot be negative: %s", field, value)
	}
	return result, nil
}

// Validate performs a best-effort structural validation of the scenario. The
// returned slice is empty when the scenario is sound; otherwise it contains
// human-readable error descriptions. Kind resolution is left to the workload
// registry - Validate only verifies static properties.
func (s *Scenario) Validate() []error {
	var issues []error
	if s.Name == "" {
		issues = append(issues, fmt.Errorf("scenario name is empty"))
	}
	if len(s.Processes) == 0 {
		issues = append(issues, fmt.Errorf("scenario %s declares no processes", s.Name))
	}
	if tuning := s.Scheduler; tuning != nil {
		if tuning.Levels < 0 {
			issues = append(issues, fmt.Errorf("scheduler levels cannot be negative: %d", tuning.Levels))
		}
		for field, value := range map[string]string{
			"baseQuantum":     tuning.BaseQuantum,
			"quantumStep":     tuning.QuantumStep,
			"blockingQuantum": tuning.BlockingQuantum,
			"tickInterval":    tuning.TickInterval,
		} {
			if value == "" {
				continue
			}
			if _, err := ParseDuration(field, value); err != nil {
				issues = append(issues, err)
			}
		}
	}

	seen := map[string]bool{}
	for i, spec := range s.Processes {
		if spec == nil {
			issues = append(issues, fmt.Errorf("process[%d] is nil", i))
			continue
		}
		if spec.Name == "" {
			issues = append(issues, fmt.Errorf("process[%d] has no name", i))
		}
		if seen[spec.Name] {
			issues = append(issues, fmt.Errorf("duplicate process name %s", spec.Name))
		}
		seen[spec.Name] = true
		if spec.Kind == "" && len(spec.Phases) == 0 {
			issues = append(issues, fmt.Errorf("process %s has neither kind nor phases", spec.Name))
		}
		if spec.Cycles < 0 {
			issues = append(issues, fmt.Errorf("process %s has negative cycles: %d", spec.Name, spec.Cycles))
		}
		for j, phase := range spec.Phases {
			if phase == nil {
				issues = append(issues, fmt.Errorf("process %s phase[%d] is nil", spec.Name, j))
				continue
			}
			if phase.Kind != "cpu" && phase.Kind != "io" {
				issues = append(issues, fmt.Errorf("process %s phase[%d] has unknown kind %q", spec.Name, j, phase.Kind))
			}
			if _, err := ParseDuration(fmt.Sprintf("process %s phase[%d]", spec.Name, j), phase.Duration); err != nil {
				issues = append(issues, err)
			}
		}
	}
	return issues
}

// NewScenario creates a new scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{Name: name}
}

// WithDescription sets the description of the scenario.
func (s *Scenario) WithDescription(description string) *Scenario {
	s.Description = description
	return s
}

// WithTuning sets the scheduler tuning of the scenario.
func (s *Scenario) WithTuning(tuning *Tuning) *Scenario {
	s.Scheduler = tuning
	return s
}

// AddProcess appends a process spec to the scenario.
func (s *Scenario) AddProcess(spec *ProcessSpec) *Scenario {
	s.Processes = append(s.Processes, spec)
	return s
}

// Lookup returns the process spec with the given name, or nil.
func (s *Scenario) Lookup(name string) *ProcessSpec {
	for _, spec := range s.Processes {
		if spec != nil && spec.Name == name {
			return spec
		}
	}
	return nil
}

// Clone creates a deep copy of the scenario.
func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	clone := &Scenario{
		Name:        s.Name,
		Description: s.Description,
	}
	if s.Source != nil {
		source := *s.Source
		clone.Source = &source
	}
	if s.Scheduler != nil {
		tuning := *s.Scheduler
		clone.Scheduler = &tuning
	}
	if s.Processes != nil {
		clone.Processes = make([]*ProcessSpec, 0, len(s.Processes))
		for _, spec := range s.Processes {
			clone.Processes = append(clone.Processes, spec.Clone())
		}
	}
	return clone
}

// Clone creates a deep copy of the process spec.
func (p *ProcessSpec) Clone() *ProcessSpec {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Phases != nil {
		clone.Phases = make([]*PhaseSpec, 0, len(p.Phases))
		for _, phase := range p.Phases {
			if phase == nil {
				clone.Phases = append(clone.Phases, nil)
				continue
			}
			copied := *phase
			clone.Phases = append(clone.Phases, &copied)
		}
	}
	return &clone
}
