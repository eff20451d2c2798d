package config

import (
	"os"
	"strconv"
)

// Config holds application configuration read from the environment.
type Config struct {
	Port                string
	DBPath              string
	LogLevel            string
	LedgerURL           string // empty disables reward crediting
	ReconcileCron       string // cron spec for the scheduled reconcile
	ReconcileWindowDays int    // rolling window radius around today
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Port:                getEnv("CHOREBOARD_PORT", "8080"),
		DBPath:              getEnv("CHOREBOARD_DB_PATH", "choreboard.db"),
		LogLevel:            getEnv("CHOREBOARD_LOG_LEVEL", "info"),
		LedgerURL:           os.Getenv("CHOREBOARD_LEDGER_URL"),
		ReconcileCron:       getEnv("CHOREBOARD_RECONCILE_CRON", "30 3 * * *"),
		ReconcileWindowDays: getEnvInt("CHOREBOARD_RECONCILE_WINDOW_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
