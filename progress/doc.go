// Package progress defines primitives for reporting and aggregating the
// progress of a simulation run.  It abstracts away the delivery mechanism so
// that callers can consume counter updates in a uniform way regardless of
// whether they poll snapshots or subscribe to the change callback.
package progress
