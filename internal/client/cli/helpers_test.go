package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/config"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/services"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/session"
	"github.com/dmitrijs2005/hospitaladmin/internal/logging"
)

type harness struct {
	app   *App
	out   *bytes.Buffer
	repo  *users.MemoryRepository
	store *session.Store
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Backend = config.BackendMemory
	c.SessionBackend = config.SessionMemory
	c.ResetDelay = time.Hour
	return c
}

// newHarness builds an App over in-memory backends that reads its input
// from the given lines.
func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()
	noTerminal(t)

	repo := users.NewMemoryRepository(&users.User{
		ID: "u1", Username: "admin", Password: "hunter2", Role: "admin", IsActive: true,
	})
	store := session.NewStore(session.NewMemoryKV(), logging.Discard())
	as := services.NewAuthService(repo, store, logging.Discard())

	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return &harness{
		app:   newApp(testConfig(), logging.Discard(), as, in, out),
		out:   out,
		repo:  repo,
		store: store,
	}
}

func noTerminal(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

// downRepo fails every call as an unreachable backend would.
type downRepo struct{}

var errDown = errors.New("dial tcp: connection refused")

func (downRepo) GetByUsername(context.Context, string) (*users.User, error) { return nil, errDown }
func (downRepo) Create(context.Context, *users.User) (*users.User, error)   { return nil, errDown }
func (downRepo) Update(context.Context, string, users.Patch) (*users.User, error) {
	return nil, errDown
}
func (downRepo) Probe(context.Context) error { return errDown }
