package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hospitaladmin/internal/flagx"
	"github.com/dmitrijs2005/hospitaladmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so they can be written as "3s".
type JsonConfig struct {
	Backend        string `json:"backend"`
	BackendURL     string `json:"backend_url"`
	AnonKey        string `json:"anon_key"`
	ServiceRoleKey string `json:"service_role_key"`
	DatabaseDSN    string `json:"database_dsn"`

	SessionBackend string `json:"session_backend"`
	SessionDBPath  string `json:"session_db_path"`
	RedisAddr      string `json:"redis_addr"`
	RedisPassword  string `json:"redis_password"`
	RedisDB        *int   `json:"redis_db"`

	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ResetDelay          timex.Duration `json:"reset_delay"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with the JSON file named by -c/-config. Keys
// missing from the file keep their current values. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.AnonKey, jc.AnonKey)
	setString(&cfg.ServiceRoleKey, jc.ServiceRoleKey)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SessionBackend, jc.SessionBackend)
	setString(&cfg.SessionDBPath, jc.SessionDBPath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval.Duration)
	setDuration(&cfg.ResetDelay, jc.ResetDelay.Duration)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
}
