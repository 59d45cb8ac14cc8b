// Package prometheus renders the portal's session metrics in Prometheus text exposition
// format.
//
// Engine counters are grouped into labelled families: campus_auth_attempts_total by
// operation and outcome, campus_session_restores_total by outcome and
// campus_guard_decisions_total by decision. The live session is exposed as the
// campus_session_authenticated gauge (one series per role) and campus_session_loading.
// campus_auth_latency_seconds is present while latency histograms are enabled.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
