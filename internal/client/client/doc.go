// Package client wires the client-side building blocks of the hospital admin
// tools.
//
// It opens the local SQLite database (OpenLocalDB, RunMigrations) that backs
// the session store, and builds the users.Repository selected by the
// configuration (NewUserRepository): the REST data API, a direct Postgres
// connection, or an in-memory store.
//
// Errors that callers may want to match are exposed as sentinels:
// ErrUnsupportedBackend.
package client
