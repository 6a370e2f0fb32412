package feedq

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/schedsim/feedq/extension"
	"github.com/schedsim/feedq/internal/clock"
	"github.com/schedsim/feedq/model"
	"github.com/schedsim/feedq/policy"
	"github.com/schedsim/feedq/progress"
	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/dao/scenario"
	"github.com/schedsim/feedq/service/event"
	"github.com/schedsim/feedq/service/scheduler"
	"github.com/schedsim/feedq/tracing"
)

// Runtime drives simulations: ad-hoc process submission on a shared run,
// plus scenario loading where every scenario gets a fresh scheduler with its
// own tuning.
type Runtime struct {
	policy          *policy.Policy
	schedulerConfig scheduler.Config
	kinds           *extension.Kinds
	eventService    *event.Service
	scenarioDAO     *scenario.Service
	simulationDAO   dao.Service[string, simulation.Simulation]
	recordDAO       dao.Service[string, simulation.Record]

	mu      sync.Mutex
	current *scheduler.Service
	active  []*scheduler.Service
}

// scheduler returns the ad-hoc dispatch service, creating it on first use.
func (r *Runtime) scheduler() (*scheduler.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return r.current, nil
	}
	service, err := r.newScheduler("adhoc", r.policy, r.schedulerConfig)
	if err != nil {
		return nil, err
	}
	r.current = service
	r.active = append(r.active, service)
	return service, nil
}

// newScheduler builds a dispatch service for one simulation run.
func (r *Runtime) newScheduler(name string, p *policy.Policy, config scheduler.Config) (*scheduler.Service, error) {
	options := []scheduler.Option{
		scheduler.WithName(name),
		scheduler.WithPolicy(p),
		scheduler.WithConfig(config),
		scheduler.WithSimulationDAO(r.simulationDAO),
		scheduler.WithRecordDAO(r.recordDAO),
	}
	if r.eventService != nil {
		options = append(options, scheduler.WithEventService(r.eventService))
	}
	return scheduler.New(options...)
}

// tuned applies per-scenario tuning on top of the runtime defaults.
func (r *Runtime) tuned(tuning *model.Tuning) (*policy.Policy, scheduler.Config, error) {
	config := r.schedulerConfig
	if tuning == nil {
		return r.policy, config, nil
	}
	base := policy.ToConfig(r.policy)
	if tuning.Levels != 0 {
		base.Levels = tuning.Levels
	}
	if tuning.BaseQuantum != "" {
		base.BaseQuantum = tuning.BaseQuantum
	}
	if tuning.QuantumStep != "" {
		base.QuantumStep = tuning.QuantumStep
	}
	if tuning.BlockingQuantum != "" {
		base.BlockingQuantum = tuning.BlockingQuantum
	}
	tunedPolicy, err := policy.FromConfig(base)
	if err != nil {
		return nil, config, err
	}
	if tuning.TickInterval != "" {
		interval, err := model.ParseDuration("tickInterval", tuning.TickInterval)
		if err != nil {
			return nil, config, err
		}
		config.TickInterval = interval
	}
	return tunedPolicy, config, nil
}

// Submit queues processes on the shared ad-hoc simulation, creating it on
// first use.
func (r *Runtime) Submit(ctx context.Context, processes ...model.Process) error {
	service, err := r.scheduler()
	if err != nil {
		return err
	}
	return service.Submit(ctx, processes...)
}

// Run drives the ad-hoc simulation until every queue drains, the context is
// cancelled or Shutdown is called.
func (r *Runtime) Run(ctx context.Context) error {
	service, err := r.scheduler()
	if err != nil {
		return err
	}
	return service.Run(ctx)
}

// Progress returns the counters of the most recently started simulation.
func (r *Runtime) Progress() progress.Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return progress.Counters{}
	}
	return r.current.Progress()
}

// LoadScenario loads a scenario definition from the given location.
func (r *Runtime) LoadScenario(ctx context.Context, location string) (*model.Scenario, error) {
	return r.scenarioDAO.Load(ctx, location)
}

// DecodeYAMLScenario parses an in-memory scenario definition.
func (r *Runtime) DecodeYAMLScenario(data []byte) (*model.Scenario, error) {
	return r.scenarioDAO.DecodeYAML(data)
}

// RefreshScenario discards any cached copy of the scenario definition at the
// given location. The next LoadScenario call will reload the file via the
// configured meta-service (i.e. one extra disk/cloud round-trip).
func (r *Runtime) RefreshScenario(ctx context.Context, location string) error {
	if r == nil || r.scenarioDAO == nil {
		return fmt.Errorf("runtime not fully initialised, scenarioDAO missing")
	}
	r.scenarioDAO.Invalidate(ctx, location)
	return nil
}

// StartScenario builds the scenario's processes through the kind registry,
// submits them to a fresh simulation and starts its dispatch loop in the
// background. The returned Wait blocks until the run reaches a terminal
// state or the timeout elapses.
func (r *Runtime) StartScenario(ctx context.Context, aScenario *model.Scenario) (sim *simulation.Simulation, wait simulation.Wait, err error) {
	if aScenario == nil {
		return nil, nil, fmt.Errorf("scenario is nil")
	}
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("runtime.startScenario %s", aScenario.Name), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	if issues := aScenario.Validate(); len(issues) > 0 {
		return nil, nil, fmt.Errorf("invalid scenario %s: %w", aScenario.Name, issues[0])
	}
	processes := make([]model.Process, 0, len(aScenario.Processes))
	for _, spec := range aScenario.Processes {
		process, err := r.kinds.Build(spec)
		if err != nil {
			return nil, nil, err
		}
		processes = append(processes, process)
	}
	span.AddEvent("workloads built", map[string]string{"count": strconv.Itoa(len(processes))})

	tunedPolicy, config, err := r.tuned(aScenario.Scheduler)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid scenario %s tuning: %w", aScenario.Name, err)
	}
	service, err := r.newScheduler(aScenario.Name, tunedPolicy, config)
	if err != nil {
		return nil, nil, err
	}
	if err := service.Submit(ctx, processes...); err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	r.current = service
	r.active = append(r.active, service)
	r.mu.Unlock()

	go func() {
		if err := service.Run(ctx); err != nil {
			log.Printf("simulation %s: %v", service.Simulation().ID, err)
		}
	}()

	wait = func(ctx context.Context, timeout time.Duration) (*simulation.Output, error) {
		return r.waitForSimulation(ctx, service.Simulation().ID, timeout)
	}
	return service.Simulation(), wait, nil
}

// RunScenario loads the scenario at the given location, runs it to
// completion and returns the run summary. It is a convenience helper for
// quick ad-hoc jobs and tests.
func (r *Runtime) RunScenario(ctx context.Context, location string) (*simulation.Output, error) {
	aScenario, err := r.LoadScenario(ctx, location)
	if err != nil {
		return nil, err
	}
	_, wait, err := r.StartScenario(ctx, aScenario)
	if err != nil {
		return nil, err
	}
	const defaultTimeout = 5 * time.Minute
	return wait(ctx, defaultTimeout)
}

// waitForSimulation polls the simulation DAO until the run reaches a
// terminal state or the timeout elapses.
func (r *Runtime) waitForSimulation(ctx context.Context, simulationID string, timeout time.Duration) (*simulation.Output, error) {
	deadline := clock.Now().Add(timeout)
	for {
		sim, err := r.simulationDAO.Load(ctx, simulationID)
		if err != nil {
			return nil, err
		}
		if sim.Finished() {
			return r.output(ctx, sim, false)
		}
		if clock.Now().After(deadline) {
			return r.output(ctx, sim, true)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// output assembles the run summary from a snapshot of the simulation and its
// records.
func (r *Runtime) output(ctx context.Context, sim *simulation.Simulation, timedOut bool) (*simulation.Output, error) {
	snapshot := sim.Clone()
	records, err := r.recordDAO.List(ctx, dao.BySimulation(snapshot.ID))
	if err != nil {
		return nil, err
	}
	out := &simulation.Output{
		SimulationID: snapshot.ID,
		State:        snapshot.State,
		Ticks:        snapshot.Ticks,
		Records:      records,
		TimeTaken:    snapshot.Elapsed(),
		Timeout:      timedOut,
	}
	if timedOut {
		return out, fmt.Errorf("timeout waiting for simulation %q", snapshot.ID)
	}
	return out, nil
}

// Simulation returns a simulation by id.
func (r *Runtime) Simulation(ctx context.Context, id string) (*simulation.Simulation, error) {
	return r.simulationDAO.Load(ctx, id)
}

// Simulations lists simulations, optionally filtered by state.
func (r *Runtime) Simulations(ctx context.Context, parameters ...*dao.Parameter) ([]*simulation.Simulation, error) {
	return r.simulationDAO.List(ctx, parameters...)
}

// Record returns a single process accounting record.
func (r *Runtime) Record(ctx context.Context, id string) (*simulation.Record, error) {
	return r.recordDAO.Load(ctx, id)
}

// Records lists process accounting records, optionally filtered by
// simulation, state or level.
func (r *Runtime) Records(ctx context.Context, parameters ...*dao.Parameter) ([]*simulation.Record, error) {
	return r.recordDAO.List(ctx, parameters...)
}

// Shutdown stops every simulation started through this runtime.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, service := range r.active {
		service.Shutdown()
	}
	return nil
}
