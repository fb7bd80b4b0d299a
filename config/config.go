// Package config supplies environment-backed defaults for the binaries.
// A .env file is honored when present; CLI flags always win over env.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvPort    = "JETPACK_PORT"
	EnvMap     = "JETPACK_MAP"
	EnvAddr    = "JETPACK_ADDR"
	EnvDebug   = "JETPACK_DEBUG"
	EnvLogFile = "JETPACK_LOG_FILE"
)

// Load pulls in .env if one exists. Missing .env is fine; env vars and
// flags cover everything.
func Load() {
	_ = godotenv.Load()
}

// String returns the env value for key, or def when unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the env value parsed as int, or def when unset or invalid.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the env value parsed as a bool ("1", "true", ...), or def.
func Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
