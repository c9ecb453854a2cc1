package config

import (
	"log/slog"
	"os"
	"strings"
)

// App captures process-level configuration for the records service.
type App struct {
	// DBDriver selects the record store backend: "sqlite", "postgres" or "memory".
	DBDriver string

	// DBPath is the sqlite database file ("sqlite" driver only).
	DBPath string

	// DBConn is the postgres connection string ("postgres" driver only).
	DBConn string

	// LogLevel controls slog verbosity.
	LogLevel slog.Level
}

// FromEnv builds an App config from environment variables so main stays lean.
func FromEnv() App {
	driver := strings.ToLower(os.Getenv("LICENTIA_DB_DRIVER"))
	if driver == "" {
		driver = "sqlite"
	}

	dbPath := os.Getenv("LICENTIA_DB_PATH")
	if dbPath == "" {
		dbPath = "licensing.db"
	}

	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LICENTIA_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return App{
		DBDriver: driver,
		DBPath:   dbPath,
		DBConn:   os.Getenv("LICENTIA_DB_CONN"),
		LogLevel: level,
	}
}
