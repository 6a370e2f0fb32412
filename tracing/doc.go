// Package tracing integrates OpenTelemetry with the scheduler so that
// submissions and simulation runs emit spans.  All instrumentation is kept in
// a separate package so that applications which do not require tracing can
// exclude it from their build.
package tracing
