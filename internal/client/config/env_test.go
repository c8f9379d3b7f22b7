package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBoundEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOSPITAL_BACKEND", "SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_SERVICE_ROLE_KEY", "DATABASE_URL",
		"SESSION_BACKEND", "SESSION_DB_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"REQUEST_TIMEOUT", "ONLINE_CHECK_INTERVAL", "RESET_DELAY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func Test_parseEnv_FromProcessEnvironment(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	clearBoundEnv(t)

	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESET_DELAY", "1s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://abc.supabase.co", cfg.BackendURL)
	assert.Equal(t, "service", cfg.ServiceRoleKey)
	assert.Equal(t, "", cfg.AnonKey)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Second, cfg.ResetDelay)
	assert.Equal(t, BackendREST, cfg.Backend)
}

func Test_parseEnv_FromDotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	clearBoundEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"SUPABASE_URL=https://file.example\nSUPABASE_ANON_KEY=file-key\nSESSION_BACKEND=memory\n"), 0o600))

	// process environment wins over the file
	t.Setenv("SUPABASE_ANON_KEY", "process-key")
	os.Args = []string{"testbin", "-env", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://file.example", cfg.BackendURL)
	assert.Equal(t, "process-key", cfg.AnonKey)
	assert.Equal(t, SessionMemory, cfg.SessionBackend)
}

func Test_parseEnv_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	clearBoundEnv(t)

	t.Run("explicit file missing", func(t *testing.T) {
		os.Args = []string{"testbin", "-e", filepath.Join(t.TempDir(), "missing.env")}
		assert.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad redis db", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("REDIS_DB", "zero")
		assert.Panics(t, func() { parseEnv(&Config{}) })
	})
}
