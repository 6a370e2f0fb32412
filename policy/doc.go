// Package policy declares the priority and quantum constants of the
// multilevel feedback queue variant implemented by this module - the
// per-level quantum formula, the demotion clamp and the unblock boost target.
package policy
