// Package feedq simulates a multilevel feedback queue CPU scheduler.
//
// Synthetic processes alternate CPU bursts and blocking phases while the
// scheduler dispatches them across priority queues, one per level plus a
// single blocking queue. The module is organised in pluggable service
// layers:
//
//   - scheduler - the tick-driven dispatch loop and interrupt routing
//   - runqueue  - FIFO queues granting quantum-bounded service
//   - workload  - built-in process kinds (cpu, io, interactive, phased)
//   - dao       - simulation, record and scenario storage
//
// End-users typically interact with the engine via the high-level Service
// facade exposed by the root package:
//
//	srv, _ := feedq.New()
//	rt := srv.Runtime()
//	scenario, _ := rt.LoadScenario(ctx, "scenario.yaml")
//	_, wait, _ := rt.StartScenario(ctx, scenario)
//	out, _ := wait(ctx, time.Minute)
//
// For more details see the individual sub-packages.
package feedq
