package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// EnvConfig binds environment variables. Empty values leave the Config
// untouched.
type EnvConfig struct {
	Backend        string `env:"HOSPITAL_BACKEND"`
	BackendURL     string `env:"SUPABASE_URL"`
	AnonKey        string `env:"SUPABASE_ANON_KEY"`
	ServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	DatabaseDSN    string `env:"DATABASE_URL"`

	SessionBackend string `env:"SESSION_BACKEND"`
	SessionDBPath  string `env:"SESSION_DB_PATH"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"`

	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	ResetDelay          time.Duration `env:"RESET_DELAY"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

// parseEnv loads the dotenv file (-e/-env, or ".env" when present) and
// overlays Config with the bound variables. Variables already set in the
// process environment win over the file. Panics on malformed input.
func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	var ec EnvConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	setString(&cfg.Backend, ec.Backend)
	setString(&cfg.BackendURL, ec.BackendURL)
	setString(&cfg.AnonKey, ec.AnonKey)
	setString(&cfg.ServiceRoleKey, ec.ServiceRoleKey)
	setString(&cfg.DatabaseDSN, ec.DatabaseDSN)
	setString(&cfg.SessionBackend, ec.SessionBackend)
	setString(&cfg.SessionDBPath, ec.SessionDBPath)
	setString(&cfg.RedisAddr, ec.RedisAddr)
	setString(&cfg.RedisPassword, ec.RedisPassword)
	setString(&cfg.LogLevel, ec.LogLevel)
	setDuration(&cfg.RequestTimeout, ec.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, ec.OnlineCheckInterval)
	setDuration(&cfg.ResetDelay, ec.ResetDelay)
	setInt(&cfg.RedisDB, ec.RedisDB)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
