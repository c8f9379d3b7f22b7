// Package metadata persists small client-side values, such as the signed-in
// session record, in the local SQLite database.
package metadata
