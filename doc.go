// Package campusAuth provides the session and route-access core of the KJ CONNECT campus
// portal: a single current user restored from durable storage, simulated login/register
// and logout transitions, and a role-based route guard with a fixed redirect policy.
//
// Engine methods are safe to call from multiple goroutines after [Builder.Build].
// Login, Register and Logout are serialized: overlapping calls queue behind each other so
// the "single current user" invariant holds even under a concurrent HTTP server.
//
// # Architecture boundaries
//
// campusAuth is the public surface. It exposes [Engine], [Builder], [Config], [Decision],
// [Snapshot] and the notification/navigation collaborator types. Flow orchestration lives
// under internal/flows; storage and record encoding live in session and jwt.
//
// # What this package must NOT do
//
//   - Verify credentials against a directory or store passwords.
//   - Expose storage clients or encoding details in its public API.
//   - Import any sub-package that re-imports campusAuth (no import cycles).
package campusAuth
