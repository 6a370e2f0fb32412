// Package idgen issues the unique identifiers used for simulations,
// processes and queue messages. Identifiers are opaque strings, callers
// must not assume any particular format.
package idgen
