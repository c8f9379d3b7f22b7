package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/hospitaladmin/internal/flagx"
)

var ownFlags = []string{"-b", "-u", "-k", "-d", "-s", "-f", "-r", "-t", "-i", "-l"}

// parseFlags populates Config from the command-line flags listed in the
// package documentation. Other flags in os.Args are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "user backend: rest, postgres or memory")
	fs.StringVar(&cfg.BackendURL, "u", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "backend API key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN")
	fs.StringVar(&cfg.SessionBackend, "s", cfg.SessionBackend, "session store: sqlite, redis or memory")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "SQLite session database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
