// Package session persists the signed-in session record in client-side
// durable storage.
//
// The record lives under a single key (common.SessionStorageKey) of a KV
// backend: the local SQLite metadata table, Redis, or process memory.
// Store.Load applies the validity rule and silently purges anything that
// does not pass it.
package session
