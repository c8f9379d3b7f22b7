// Package setup provisions the users table on the managed backend. It
// prints the schema for manual use or applies it through the embedded
// migrations, checks that the table answers, and can seed an
// administrator account.
package setup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/client"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
)

const serviceRole = "service_role"

var (
	ErrApplyNeedsPostgres = errors.New("-apply needs the postgres backend and DATABASE_URL")
	ErrTableNotReady      = errors.New("users table is not provisioned")
)

// test seams
var (
	openPostgres  = client.OpenPostgres
	runMigrations = users.RunMigrations
)

type App struct {
	config *config.Config
	opts   Options
	log    logging.Logger
	out    io.Writer

	repo users.Repository
	db   *sql.DB // set for the postgres backend only
	done func() error
}

func NewApp(c *config.Config, opts Options, log logging.Logger, out io.Writer) (*App, error) {
	app := &App{config: c, opts: opts, log: log, out: out}

	if c.Backend == config.BackendPostgres {
		db, err := openPostgres(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		app.repo = users.NewPostgresRepository(db)
		app.done = db.Close
		return app, nil
	}

	repo, done, err := client.NewUserRepository(c, c.AdminKey())
	if err != nil {
		return nil, err
	}
	app.repo = repo
	app.done = done
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run provisions the schema (or prints it), checks the table and seeds the
// administrator when one was requested.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.done(); err != nil {
			app.log.Warn(ctx, "close failed", "error", err)
		}
	}()

	if err := app.schema(ctx); err != nil {
		return err
	}

	app.checkKey(ctx)

	if err := app.probe(ctx); err != nil {
		return err
	}

	if app.opts.AdminUsername != "" {
		return app.seedAdmin(ctx)
	}
	return nil
}

func (app *App) schema(ctx context.Context) error {
	if !app.opts.Apply {
		ddl, err := users.DDL()
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, "-- Run this SQL in the backend's SQL editor:")
		fmt.Fprintln(app.out, ddl)
		return nil
	}

	if app.db == nil {
		return ErrApplyNeedsPostgres
	}
	app.log.Info(ctx, "applying migrations")
	if err := runMigrations(ctx, app.db); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "Migrations applied")
	return nil
}

// checkKey warns when the REST key is not a service-role key; row-level
// security usually hides or blocks writes to users for anon keys.
func (app *App) checkKey(ctx context.Context) {
	if app.config.Backend != config.BackendREST {
		return
	}

	role, err := users.KeyRole(app.config.AdminKey())
	if err != nil {
		app.log.Warn(ctx, "cannot read api key role", "error", err)
		return
	}
	if role != serviceRole {
		app.log.Warn(ctx, "api key is not a service-role key", "role", role)
		fmt.Fprintf(app.out, "Warning: using a %q key; set SUPABASE_SERVICE_ROLE_KEY for provisioning\n", role)
	}
}

func (app *App) probe(ctx context.Context) error {
	err := app.repo.Probe(ctx)
	switch {
	case errors.Is(err, users.ErrTableMissing):
		fmt.Fprintln(app.out, "users table not found")
		return fmt.Errorf("%w: %w", ErrTableNotReady, err)
	case err != nil:
		return fmt.Errorf("probe failed: %w", err)
	}
	fmt.Fprintln(app.out, "users table is ready")
	return nil
}
