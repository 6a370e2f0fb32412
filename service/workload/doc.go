// Package workload provides the built-in synthetic process kinds a scenario
// can declare: pure CPU hogs, I/O-bound loops, interactive think-react
// shapes and fully explicit phase lists.
package workload
