// Package extension holds the run-time registry that maps workload kind
// names from scenario files to the builders constructing runnable processes.
//
// The built-in kinds are registered through the root feedq package, so most
// applications only import this package to add custom workload kinds.
package extension
