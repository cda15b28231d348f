// Package session keeps the signed-in user's session record and persists it
// in one of two storage tiers.
//
// The ephemeral tier lives for the current process only. The durable tier
// survives restarts and is chosen when the user asks to be remembered. At most
// one tier holds the record at a time; on start-up the ephemeral tier wins.
//
// A Manager is safe for concurrent use. Readers always observe a complete
// record: mutations build a new record and swap it in.
package session
