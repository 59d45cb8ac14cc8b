// Package session persists the single current portal [User] in durable key-value storage
// and encodes it compactly.
//
// # Storage
//
// A [Storage] holds at most one record under a fixed key. [RedisStorage] keeps it in
// Redis; [SQLiteStorage] keeps it in a local SQLite file so the session survives process
// restarts without a server. Both return [ErrNotFound] when nothing is stored.
//
// # Binary encoding
//
// [BinaryCodec] writes a versioned layout (v1, v2, v3) and reads every version it ever wrote.
// Any decode failure is reported as [ErrCorrupt] so callers can treat it as "no session".
//
// # Architecture boundaries
//
// This package owns persistence and the [User] model. It does NOT decide who may log in,
// derive roles, or issue redirects. Those responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import campusAuth or jwt (no upward imports).
//   - Store passwords or any credential material in [User].
package session
