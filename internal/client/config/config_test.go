package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendREST, c.Backend)
	assert.Equal(t, SessionSQLite, c.SessionBackend)
	assert.Equal(t, "session.db", c.SessionDBPath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 2*time.Second, c.ResetDelay)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_PrecedenceEnvThenJSONThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("SUPABASE_URL", "https://env.example")
	t.Setenv("SUPABASE_ANON_KEY", "env-key")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeTempJSON(t, "", "", map[string]any{
		"backend_url": "https://json.example",
		"log_level":   "warn",
	})
	os.Args = []string{"cli", "-c", path, "-l", "error"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "env-key", cfg.AnonKey)
	assert.Equal(t, "https://json.example", cfg.BackendURL)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestKeys(t *testing.T) {
	c := Config{AnonKey: "anon"}
	assert.Equal(t, "anon", c.ClientKey())
	assert.Equal(t, "anon", c.AdminKey())

	c.ServiceRoleKey = "service"
	assert.Equal(t, "anon", c.ClientKey())
	assert.Equal(t, "service", c.AdminKey())

	c.AnonKey = ""
	assert.Equal(t, "service", c.ClientKey())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		c.BackendURL = "https://x.example"
		c.AnonKey = "k"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults with url and key", func(c *Config) {}, ""},
		{"rest without url", func(c *Config) { c.BackendURL = "" }, "backend url is required"},
		{"rest without key", func(c *Config) { c.AnonKey = "" }, "api key is required"},
		{"postgres without dsn", func(c *Config) { c.Backend = BackendPostgres }, "database dsn is required"},
		{"memory needs nothing", func(c *Config) { c.Backend = BackendMemory; c.BackendURL = "" }, ""},
		{"unknown backend", func(c *Config) { c.Backend = "grpc" }, `unknown backend "grpc"`},
		{"redis without addr", func(c *Config) { c.SessionBackend = SessionRedis; c.RedisAddr = "" }, "redis address is required"},
		{"unknown session backend", func(c *Config) { c.SessionBackend = "file" }, `unknown session backend "file"`},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
