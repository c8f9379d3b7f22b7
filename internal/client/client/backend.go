package client

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewUserRepository builds the remote user repository selected by
// cfg.Backend. key is the API key to present to the REST backend. The
// returned close function releases the underlying connection and is never
// nil.
func NewUserRepository(cfg *config.Config, key string) (users.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendREST:
		httpClient := &http.Client{Timeout: cfg.RequestTimeout}
		return users.NewPostgRESTRepository(cfg.BackendURL, key, httpClient), noop, nil

	case config.BackendPostgres:
		db, err := OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, err
		}
		return users.NewPostgresRepository(db), db.Close, nil

	case config.BackendMemory:
		return users.NewMemoryRepository(), noop, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
}

// OpenPostgres opens a pgx-backed database handle, for tools that need the
// *sql.DB itself (migrations).
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}
