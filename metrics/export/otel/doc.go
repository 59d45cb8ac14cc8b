// Package otel publishes the portal's session metrics through OpenTelemetry observable
// instruments.
//
// Counter families mirror the Prometheus output: one Int64ObservableCounter per family
// with operation/outcome/decision attributes. The live session appears as the
// campus_session_authenticated gauge (role attribute) and campus_session_loading. A
// single callback reads the engine on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
