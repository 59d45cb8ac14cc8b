// Package middleware exposes net/http adapters for the campusAuth route guard.
//
// # Guards
//
//   - [Guard] guards a handler with an explicit allowed-role set.
//   - [RouteGuard] picks the allowed set from the Engine's route table by request path.
//
// Both evaluate a campusAuth.Decision and translate it into HTTP: 503 with
// Retry-After while the session is loading, 302 to the login page (carrying the
// requested URI in the "from" query parameter) for anonymous visitors, 302 to the
// role's dashboard on a role mismatch. On render the current user is injected into
// the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// access rules itself; all decisions are delegated to the Engine.
//
// # What this package must NOT do
//
//   - Read or write session storage.
//   - Decide redirects beyond mapping a Decision onto a response.
package middleware
