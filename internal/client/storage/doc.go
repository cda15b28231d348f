// Package storage provides the key/value stores behind the two session
// storage tiers.
//
//   - MemoryStore lives as long as the process. It backs the ephemeral tier,
//     the equivalent of a browser's per-tab session storage.
//   - SQLiteStore persists to a local database file and backs the durable
//     ("remember me") tier by default.
//   - RedisStore is an alternative durable tier for shared terminals where
//     the session should follow the user rather than the machine.
//
// All stores return (nil, nil) from Get for a missing key and treat Delete
// of a missing key as success.
package storage
