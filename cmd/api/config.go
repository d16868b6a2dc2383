package main

import (
	"os"
	"strconv"
	"time"
)

// config carries the service's environment-driven settings. Everything has a
// default so the binary runs with no configuration at all.
type config struct {
	Addr        string
	DBPath      string
	SessionID   string
	LibraryPath string
	KeyDelay    time.Duration
	SettleDelay time.Duration
}

func loadConfig() config {
	return config{
		Addr:        envOr("CALC_ADDR", ":8080"),
		DBPath:      envOr("CALC_DB_PATH", "data/mcplator.db"),
		SessionID:   envOr("CALC_SESSION_ID", "default"),
		LibraryPath: envOr("CALC_SEQUENCE_LIBRARY", "sequences.yaml"),
		KeyDelay:    envDurationMs("CALC_KEY_DELAY_MS", 250*time.Millisecond),
		SettleDelay: envDurationMs("CALC_SETTLE_DELAY_MS", 50*time.Millisecond),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
