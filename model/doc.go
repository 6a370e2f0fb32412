// Package model contains the in-memory representation of scenario
// definitions and the behavioural contract the scheduler requires from a
// process.
//
// A scenario is typically loaded from a YAML document into Scenario and its
// ProcessSpec entries; the workload registry turns each spec into a concrete
// Process implementation. The Process interface is deliberately small so that
// callers can submit their own implementations without depending on the
// built-in workloads.
package model
