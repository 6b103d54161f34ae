package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	StoreDriver     string
	StorePath       string
	DatabaseURI     string
	FlushInterval   time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	StrictStore     bool
}

const (
	defaultRunAddress      = ":8080"
	defaultStoreDriver     = StoreDriverFile
	defaultStorePath       = "database.json"
	defaultFlushInterval   = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
)

// Load parses configuration from a .env file, environment variables and flags.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StoreDriver:     getString(lookup, "STORE_DRIVER", defaultStoreDriver),
		StorePath:       getString(lookup, "STORE_PATH", defaultStorePath),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		FlushInterval:   getDuration(lookup, "FLUSH_INTERVAL", defaultFlushInterval),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		StrictStore:     getBool(lookup, "STRICT_STORE", false),
	}

	fs := flag.NewFlagSet("banksampah", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		flushIntervalStr   = cfg.FlushInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Account store driver: file or postgres")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "Account store file path")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&flushIntervalStr, "flush-interval", flushIntervalStr, "Retry interval for unsaved snapshots")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.StrictStore, "strict-store", cfg.StrictStore, "Refuse to start when the store is corrupt")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.FlushInterval, err = time.ParseDuration(flushIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid flush interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDriverFile:
		if cfg.StorePath == "" {
			return nil, fmt.Errorf("store path must be provided")
		}
	case StoreDriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
