package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/client"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/form"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/services"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/session"
	"github.com/dmitrijs2005/hospitaladmin/internal/filex"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const redisKeyPrefix = "hospitaladmin:"

type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	form        *form.Controller
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.RWMutex
	user *session.Session
	mode Mode

	closers []func() error
}

// NewApp builds the console from configuration: the user backend, the
// session store and the auth service.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repo, closeRepo, err := client.NewUserRepository(c, c.ClientKey())
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := newSessionKV(ctx, c)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	store := session.NewStore(kv, log)
	as := services.NewAuthService(repo, store, log)

	app := newApp(c, log, as, os.Stdin, os.Stdout)
	app.closers = append(app.closers, closeKV, closeRepo)
	return app, nil
}

func newApp(c *config.Config, log logging.Logger, as services.AuthService, in io.Reader, out io.Writer) *App {
	a := &App{
		config:      c,
		log:         log,
		authService: as,
		reader:      bufio.NewReader(in),
		out:         out,
	}
	a.form = form.New(as,
		form.WithResetDelay(c.ResetDelay),
		form.WithOnLogin(a.onLogin),
	)
	return a
}

// newSessionKV opens the storage backend that holds the session record.
func newSessionKV(ctx context.Context, c *config.Config) (session.KV, func() error, error) {
	switch c.SessionBackend {
	case config.SessionSQLite:
		if err := filex.EnsureParentDir(c.SessionDBPath); err != nil {
			return nil, nil, err
		}
		db, err := client.OpenLocalDB(ctx, c.SessionDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil

	case config.SessionRedis:
		rc, err := session.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisKV(rc, redisKeyPrefix), rc.Close, nil

	case config.SessionMemory:
		return session.NewMemoryKV(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
}

func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	a.Root(ctx)
	return nil
}

// Close releases the backend and storage connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onLogin(s *session.Session) {
	a.setUser(s)
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", s.Username, s.Role)
}

func (a *App) setUser(s *session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = s
}

func (a *App) currentUser() *session.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// withTimeout bounds a single backend operation.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// console between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := a.withTimeout(ctx)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "backend ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
