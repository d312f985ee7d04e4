// Package config loads process settings from the environment and engine
// tuning from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Env holds process-level settings read from BRAINDUMP_* variables.
type Env struct {
	DBPath        string
	ConfigPath    string
	Addr          string
	JWTSecret     string
	TokenTTL      time.Duration
	RatePerHour   int
	RateBurst     int
	LogUseCases   bool
	AllowedOrigin []string
}

func DefaultEnv(home string) Env {
	dir := filepath.Join(home, ".braindump")
	return Env{
		DBPath:        filepath.Join(dir, "braindump.db"),
		ConfigPath:    filepath.Join(dir, "config.yaml"),
		Addr:          "127.0.0.1:8787",
		TokenTTL:      30 * 24 * time.Hour,
		RatePerHour:   30,
		RateBurst:     5,
		AllowedOrigin: []string{"*"},
	}
}

// LoadEnv reads environment variables over the defaults. Invalid numeric
// values are ignored.
func LoadEnv() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("finding home directory: %w", err)
	}
	env := DefaultEnv(home)

	if v := os.Getenv("BRAINDUMP_DB"); v != "" {
		env.DBPath = v
	}
	if v := os.Getenv("BRAINDUMP_CONFIG"); v != "" {
		env.ConfigPath = v
	}
	if v := os.Getenv("BRAINDUMP_ADDR"); v != "" {
		env.Addr = v
	}
	env.JWTSecret = os.Getenv("BRAINDUMP_JWT_SECRET")
	if v := os.Getenv("BRAINDUMP_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			env.TokenTTL = d
		}
	}
	if v := os.Getenv("BRAINDUMP_RATE_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			env.RatePerHour = n
		}
	}
	if v := os.Getenv("BRAINDUMP_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			env.RateBurst = n
		}
	}
	if v := os.Getenv("BRAINDUMP_LOG_USE_CASES"); v != "" {
		env.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BRAINDUMP_CORS_ORIGINS"); v != "" {
		env.AllowedOrigin = splitList(v)
	}
	return env, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
