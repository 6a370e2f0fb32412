package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/schedsim/feedq/internal/clock"
	"github.com/schedsim/feedq/internal/idgen"
	"github.com/schedsim/feedq/model"
	"github.com/schedsim/feedq/policy"
	"github.com/schedsim/feedq/progress"
	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/event"
	"github.com/schedsim/feedq/service/messaging"
	mmemory "github.com/schedsim/feedq/service/messaging/memory"
	"github.com/schedsim/feedq/service/runqueue"
	"github.com/schedsim/feedq/tracing"
)

// Config represents scheduler service configuration
type Config struct {
	// TickInterval is how often the dispatch loop runs
	TickInterval time.Duration

	// MaxIdleTicks fails a run after this many consecutive ticks granted no
	// service while processes were still queued, which indicates a stuck
	// workload rather than a finished one. Zero disables the guard.
	MaxIdleTicks int
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		TickInterval: 10 * time.Millisecond,
		MaxIdleTicks: 1000,
	}
}

// Service dispatches CPU time across multilevel feedback queues. One CPU
// queue exists per priority level, plus a single blocking queue for
// processes waiting on I/O. Dispatch is single-threaded and cooperative:
// every tick services the blocking queue, then the first non-empty CPU
// queue, then routes the interrupts those services raised. Quantum expiry
// demotes a process one level; a completed blocking phase boosts it back to
// the highest level.
type Service struct {
	config Config
	policy *policy.Policy

	cpu      []*runqueue.Queue
	blocking *runqueue.Queue

	interrupts messaging.Queue[runqueue.Interrupt]

	simulationDAO dao.Service[string, simulation.Simulation]
	recordDAO     dao.Service[string, simulation.Record]
	eventService  *event.Service

	simulation *simulation.Simulation
	tracker    *progress.Progress
	name       string

	mu      sync.RWMutex
	records map[string]*simulation.Record

	lastTick   time.Time
	idleTicks  int
	shutdownCh chan struct{}
	shutdown   sync.Once
}

// New creates a new scheduler service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		name:       "simulation",
		records:    map[string]*simulation.Record{},
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.policy == nil {
		s.policy = policy.DefaultPolicy()
	}
	if err := s.policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if s.config.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive")
	}
	if s.simulationDAO == nil {
		return nil, fmt.Errorf("simulation DAO is required")
	}
	if s.recordDAO == nil {
		return nil, fmt.Errorf("record DAO is required")
	}
	if s.interrupts == nil {
		s.interrupts = mmemory.NewQueue[runqueue.Interrupt](mmemory.DefaultConfig())
	}

	s.cpu = make([]*runqueue.Queue, 0, s.policy.LevelCount())
	for level := 0; level < s.policy.LevelCount(); level++ {
		s.cpu = append(s.cpu, runqueue.New(runqueue.RoleCPU, level, s.policy.QuantumAt(level)))
	}
	s.blocking = runqueue.NewBlocking(s.policy.BlockingQuantum)

	s.simulation = simulation.New(idgen.New(), s.name)
	s.tracker = progress.New(s.simulation.ID, s.name)
	return s, nil
}

// Simulation returns the run entity tracking this scheduler instance.
func (s *Service) Simulation() *simulation.Simulation {
	return s.simulation
}

// Progress returns a snapshot of the run counters.
func (s *Service) Progress() progress.Counters {
	return s.tracker.Snapshot()
}

// Tracker exposes the live progress tracker, e.g. to attach OnChange.
func (s *Service) Tracker() *progress.Progress {
	return s.tracker
}

// Policy returns the tuning constants this scheduler runs with.
func (s *Service) Policy() *policy.Policy {
	return s.policy
}

// Submit admits processes at the highest priority level and opens a record
// for each. It may be called before Run starts or while it is active.
func (s *Service) Submit(ctx context.Context, processes ...model.Process) (err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("scheduler.submit %s", s.simulation.ID), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"simulation.id": s.simulation.ID})

	if s.simulation.Finished() {
		return fmt.Errorf("simulation %s already %s", s.simulation.ID, s.simulation.GetState())
	}
	ctx = progress.Attach(ctx, s.tracker)
	for _, process := range processes {
		if process == nil {
			continue
		}
		record := simulation.NewRecord(s.simulation.ID, process.ID(), process.Name())
		s.mu.Lock()
		s.records[process.ID()] = record
		s.mu.Unlock()
		if err = s.recordDAO.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save record for %s: %w", process.Name(), err)
		}
		s.cpu[s.policy.BoostLevel()].Enqueue(process)
		s.simulation.AddSubmitted()
		s.tracker.Update(progress.Delta{Submitted: 1, Ready: 1})
		s.publishRecordEvent(ctx, record, "submitted")
	}
	if err = s.simulationDAO.Save(ctx, s.simulation); err != nil {
		return fmt.Errorf("failed to save simulation %s: %w", s.simulation.ID, err)
	}
	return nil
}

// Run drives the dispatch loop until every queue drains, the context is
// cancelled or Shutdown is called. The wall-clock time elapsed since the
// previous tick becomes the work budget of the next one.
func (s *Service) Run(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("scheduler.run %s", s.simulation.ID), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"simulation.id": s.simulation.ID, "scenario": s.name})

	if s.simulation.Finished() {
		return fmt.Errorf("simulation %s already %s", s.simulation.ID, s.simulation.GetState())
	}
	ctx = progress.Attach(ctx, s.tracker)
	s.simulation.SetState(simulation.StateRunning)
	if err = s.simulationDAO.Save(ctx, s.simulation); err != nil {
		return fmt.Errorf("failed to save simulation %s: %w", s.simulation.ID, err)
	}

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	s.lastTick = clock.Now()
	s.idleTicks = 0
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			s.finish(simulation.StateCancelled, err)
			return err
		case <-s.shutdownCh:
			s.finish(simulation.StateCancelled, nil)
			return nil
		case <-ticker.C:
			now := clock.Now()
			workTime := now.Sub(s.lastTick)
			s.lastTick = now

			serviced, tickErr := s.Tick(ctx, workTime)
			if tickErr != nil {
				s.finish(simulation.StateFailed, tickErr)
				err = tickErr
				return err
			}
			if s.Empty() {
				span.AddEvent("drained", map[string]string{"ticks": strconv.Itoa(s.Progress().Ticks)})
				s.finish(simulation.StateCompleted, nil)
				return nil
			}
			if serviced {
				s.idleTicks = 0
				continue
			}
			s.idleTicks++
			if s.config.MaxIdleTicks > 0 && s.idleTicks >= s.config.MaxIdleTicks {
				err = fmt.Errorf("no scheduling progress after %d ticks", s.idleTicks)
				s.finish(simulation.StateFailed, err)
				return err
			}
		}
	}
}

// Tick runs one dispatch cycle with the given work budget: the blocking
// queue first, then the first non-empty CPU queue, then interrupt routing.
// It reports whether any process received service. Budgets <= 0 leave every
// queue untouched.
func (s *Service) Tick(ctx context.Context, workTime time.Duration) (bool, error) {
	serviced := false

	if !s.blocking.IsEmpty() {
		result, err := s.blocking.DoBlockingWork(workTime)
		if err != nil {
			return serviced, err
		}
		if err := s.handleResult(ctx, s.blocking, result); err != nil {
			return serviced, err
		}
		serviced = serviced || result != nil
	}

	for _, queue := range s.cpu {
		if queue.IsEmpty() {
			continue
		}
		result, err := queue.DoCPUWork(workTime)
		if err != nil {
			return serviced, err
		}
		if err := s.handleResult(ctx, queue, result); err != nil {
			return serviced, err
		}
		serviced = serviced || result != nil
		// Strict priority: lower levels wait for the next tick.
		break
	}

	if err := s.drainInterrupts(ctx); err != nil {
		return serviced, err
	}

	s.simulation.IncrementTicks()
	s.tracker.Update(progress.Delta{Ticks: 1})
	return serviced, nil
}

// Empty reports whether the blocking queue and every CPU queue are drained.
func (s *Service) Empty() bool {
	if !s.blocking.IsEmpty() {
		return false
	}
	for _, queue := range s.cpu {
		if !queue.IsEmpty() {
			return false
		}
	}
	return true
}

// Depths returns the per-level CPU queue lengths and the blocking queue
// length.
func (s *Service) Depths() ([]int, int) {
	cpu := make([]int, len(s.cpu))
	for i, queue := range s.cpu {
		cpu[i] = queue.Len()
	}
	return cpu, s.blocking.Len()
}

// Shutdown stops the dispatch loop.
func (s *Service) Shutdown() {
	s.shutdown.Do(func() { close(s.shutdownCh) })
}

// handleResult books consumed time against the process record and forwards
// the raised interrupt, if any, to the routing queue.
func (s *Service) handleResult(ctx context.Context, from *runqueue.Queue, result *runqueue.Result) error {
	if result == nil {
		return nil
	}
	record := s.record(result.Process.ID())
	if record != nil {
		if from.Role() == runqueue.RoleCPU {
			record.Run()
			record.AddCPUTime(result.Consumed)
		} else {
			record.AddBlockingTime(result.Consumed)
		}
	}

	if result.Completed {
		delta := progress.Delta{Completed: 1}
		if from.Role() == runqueue.RoleCPU {
			delta.Ready = -1
		} else {
			delta.Blocked = -1
		}
		s.tracker.Update(delta)
		s.simulation.AddCompleted()
		if record != nil {
			record.Complete()
			if err := s.recordDAO.Save(ctx, record); err != nil {
				return fmt.Errorf("failed to save record %s: %w", record.ID, err)
			}
			s.publishRecordEvent(ctx, record, "completed")
		}
		return nil
	}

	if record != nil {
		if err := s.recordDAO.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save record %s: %w", record.ID, err)
		}
	}
	if result.Interrupt != nil {
		return s.Raise(ctx, *result.Interrupt)
	}
	return nil
}

// finish stamps the terminal state and persists the simulation.
func (s *Service) finish(state string, cause error) {
	s.simulation.AddError(cause)
	s.simulation.SetState(state)
	if err := s.simulationDAO.Save(context.Background(), s.simulation); err != nil {
		log.Printf("failed to save simulation %s: %v", s.simulation.ID, err)
	}
}

func (s *Service) record(processID string) *simulation.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[processID]
}

// publishRecordEvent emits a record lifecycle event when an event service is
// configured. Events raised inside a run carry a counter snapshot in their
// metadata.
func (s *Service) publishRecordEvent(ctx context.Context, record *simulation.Record, eventType string) {
	if s.eventService == nil {
		return
	}
	publisher, err := event.PublisherOf[*simulation.Record](s.eventService)
	if err != nil {
		return
	}
	anEvent := event.NewEvent[*simulation.Record](record.Context(eventType), record.Clone())
	if counters, ok := progress.GetSnapshot(ctx); ok {
		anEvent.Metadata["progress"] = counters
	}
	if err := publisher.Publish(ctx, anEvent); err != nil {
		log.Printf("failed to publish %s event for record %s: %v", eventType, record.ID, err)
	}
}
