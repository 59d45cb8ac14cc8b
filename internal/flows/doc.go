// Package flows contains the orchestration for every session transition of the Engine.
//
// Each flow function (RunRestore, RunLogin, RunRegister, RunLogout) accepts a typed
// dependency struct of funcs and returns results without side effects beyond those
// dependencies, so the sequencing can be tested with plain closures.
//
// # Architecture boundaries
//
// Flow functions coordinate storage, codec, notification, navigation and metrics calls.
// They do NOT own any of these resources; ownership and locking stay with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import campusAuth (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency funcs.
package flows
