// Package config loads runtime configuration for the hospital admin tools.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, after loading a dotenv file (-e/-env, default ".env").
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-b string   user backend: rest, postgres or memory
//	-u string   backend base URL (SUPABASE_URL)
//	-k string   backend API key (SUPABASE_ANON_KEY)
//	-d string   Postgres DSN (DATABASE_URL)
//	-s string   session store: sqlite, redis or memory
//	-f string   SQLite session database path
//	-r string   Redis address
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "backend": "rest",
//	  "backend_url": "https://xyz.supabase.co",
//	  "anon_key": "eyJ...",
//	  "session_backend": "sqlite",
//	  "session_db_path": "session.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "reset_delay": "2s"
//	}
package config
