// Package permission defines the closed campus role enumeration, compact role sets, the
// role-to-dashboard redirect table, and the route access table consumed by the route guard.
//
// # Role routing
//
// [HomePath] is a total function over [Role]: every enumerated role maps to its own
// dashboard and anything else maps to "/". [RoleFromEmail] derives a role from an email
// address using the fixed substring priority committee → internship → exam → student.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It does not know who is
// logged in; session state belongs to the Engine.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import campusAuth, jwt, or session.
//   - Mutate a [RouteTable] after [RouteTable.Freeze].
package permission
