package workload

import (
	"fmt"
	"time"

	"github.com/schedsim/feedq/extension"
	"github.com/schedsim/feedq/model"
)

// Kind names resolvable from scenario process specs.
const (
	KindCPU         = "cpu"
	KindIO          = "io"
	KindInteractive = "interactive"
	KindPhased      = "phased"
)

// CPUBound returns a process with a single uninterrupted CPU burst.
func CPUBound(name string, burst time.Duration) *Process {
	return New(name, CPU(burst))
}

// IOBound returns a process repeating a CPU burst followed by a blocking
// wait; the workload ends on its last wait.
func IOBound(name string, burst, wait time.Duration, cycles int) *Process {
	if cycles < 1 {
		cycles = 1
	}
	phases := make([]*Phase, 0, 2*cycles)
	for i := 0; i < cycles; i++ {
		phases = append(phases, CPU(burst), IO(wait))
	}
	return New(name, phases...)
}

// Interactive returns a process alternating CPU bursts with blocking waits
// and finishing with a closing burst, the shape of a think-react loop.
func Interactive(name string, burst, wait time.Duration, cycles int) *Process {
	if cycles < 1 {
		cycles = 1
	}
	phases := make([]*Phase, 0, 2*cycles+1)
	for i := 0; i < cycles; i++ {
		phases = append(phases, CPU(burst), IO(wait))
	}
	phases = append(phases, CPU(burst))
	return New(name, phases...)
}

// Phased returns a process from an explicit phase list.
func Phased(name string, phases ...*Phase) *Process {
	return New(name, phases...)
}

// Register installs the built-in workload builders into the kind registry.
func Register(kinds *extension.Kinds) {
	kinds.Register(KindCPU, buildCPU)
	kinds.Register(KindIO, buildIO)
	kinds.Register(KindInteractive, buildInteractive)
	kinds.Register(KindPhased, buildPhased)
}

func buildCPU(spec *model.ProcessSpec) (model.Process, error) {
	burst, err := model.ParseDuration("burst", spec.Burst)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", spec.Name, err)
	}
	return CPUBound(spec.Name, burst), nil
}

func buildIO(spec *model.ProcessSpec) (model.Process, error) {
	burst, wait, err := burstAndWait(spec)
	if err != nil {
		return nil, err
	}
	return IOBound(spec.Name, burst, wait, spec.Cycles), nil
}

func buildInteractive(spec *model.ProcessSpec) (model.Process, error) {
	burst, wait, err := burstAndWait(spec)
	if err != nil {
		return nil, err
	}
	return Interactive(spec.Name, burst, wait, spec.Cycles), nil
}

func buildPhased(spec *model.ProcessSpec) (model.Process, error) {
	if len(spec.Phases) == 0 {
		return nil, fmt.Errorf("process %s: phased workload needs at least one phase", spec.Name)
	}
	phases := make([]*Phase, 0, len(spec.Phases))
	for i, phaseSpec := range spec.Phases {
		if phaseSpec == nil {
			continue
		}
		duration, err := model.ParseDuration(fmt.Sprintf("phase[%d]", i), phaseSpec.Duration)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", spec.Name, err)
		}
		switch phaseSpec.Kind {
		case "cpu":
			phases = append(phases, CPU(duration))
		case "io":
			phases = append(phases, IO(duration))
		default:
			return nil, fmt.Errorf("process %s: unknown phase kind %q", spec.Name, phaseSpec.Kind)
		}
	}
	return Phased(spec.Name, phases...), nil
}

func burstAndWait(spec *model.ProcessSpec) (time.Duration, time.Duration, error) {
	burst, err := model.ParseDuration("burst", spec.Burst)
	if err != nil {
		return 0, 0, fmt.Errorf("process %s: %w", spec.Name, err)
	}
	wait, err := model.ParseDuration("io", spec.IO)
	if err != nil {
		return 0, 0, fmt.Errorf("process %s: %w", spec.Name, err)
	}
	return burst, wait, nil
}
