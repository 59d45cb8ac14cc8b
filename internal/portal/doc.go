// Package portal serves the KJ CONNECT portal over HTTP.
//
// Views are rendered as small JSON view descriptors; the pages themselves live in the
// frontend. Restricted views are guarded by the Engine's route table, and the login,
// register and logout endpoints answer with a 303 to wherever the Engine navigated.
//
// # What this package must NOT do
//
//   - Decide access itself. Guard decisions come from campusAuth.
//   - Touch session storage directly.
package portal
