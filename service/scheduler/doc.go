// Package scheduler implements the multilevel feedback queue dispatch loop.
//
// A Service owns one FIFO run queue per priority level plus a blocking
// queue. Each tick grants the wall-clock time elapsed since the previous
// tick as a work budget: the blocking queue is serviced first, then the
// highest-priority non-empty CPU queue. Work results raise interrupts
// (blocked, ready, lower priority) that are routed at the end of the same
// tick, so between ticks every live process sits in exactly one queue.
package scheduler
