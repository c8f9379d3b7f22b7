package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// Config holds runtime settings for the console and the setup tool.
type Config struct {
	Backend        string
	BackendURL     string
	AnonKey        string
	ServiceRoleKey string
	DatabaseDSN    string

	SessionBackend string
	SessionDBPath  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	ResetDelay          time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendREST
	c.SessionBackend = SessionSQLite
	c.SessionDBPath = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.ResetDelay = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from defaults, environment, JSON and flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// ClientKey is the key the console sends: the anon key when present.
func (c *Config) ClientKey() string {
	if c.AnonKey != "" {
		return c.AnonKey
	}
	return c.ServiceRoleKey
}

// AdminKey is the key used for provisioning: the service-role key when present.
func (c *Config) AdminKey() string {
	if c.ServiceRoleKey != "" {
		return c.ServiceRoleKey
	}
	return c.AnonKey
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendREST:
		if c.BackendURL == "" {
			errs = append(errs, errors.New("backend url is required for the rest backend"))
		}
		if c.ClientKey() == "" {
			errs = append(errs, errors.New("api key is required for the rest backend"))
		}
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("database dsn is required for the postgres backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	switch c.SessionBackend {
	case SessionSQLite:
		if c.SessionDBPath == "" {
			errs = append(errs, errors.New("session db path is required for the sqlite session store"))
		}
	case SessionRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for the redis session store"))
		}
	case SessionMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.SessionBackend))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}

	return errors.Join(errs...)
}
