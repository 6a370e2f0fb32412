// Package runqueue implements the priority-ranked run queues of the
// multilevel feedback queue scheduler.  A queue owns an ordered set of
// processes plus a fixed quantum and services the head process for a bounded
// time budget, raising an Interrupt whenever the scheduler has to change the
// process's queue membership.
package runqueue
