package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultListenAddr  = ":8090"
	defaultDBPath      = "draftbridge.db"
	defaultPython      = "python3"
	defaultFallbackDir = "/Users/arinaggarwal/Documents/IB Prep Materials/Draftmate v3"

	envListenAddr  = "DRAFTBRIDGE_LISTEN_ADDR"
	envDBPath      = "DRAFTBRIDGE_DB_PATH"
	envLogLevel    = "DRAFTBRIDGE_LOG_LEVEL"
	envPython      = "DRAFTBRIDGE_PYTHON"
	envFallbackDir = "DRAFTBRIDGE_FALLBACK_DIR"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level

	// Python is the interpreter used to launch the engine CLI.
	Python string

	// FallbackDir is the last-resort directory probed by the engine
	// resolver. The default is a development-machine path and must not be
	// relied on in production; set DRAFTBRIDGE_FALLBACK_DIR instead.
	FallbackDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		ListenAddr:  defaultListenAddr,
		DBPath:      defaultDBPath,
		LogLevel:    slog.LevelInfo,
		Python:      defaultPython,
		FallbackDir: defaultFallbackDir,
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(envPython); v != "" {
		cfg.Python = v
	}
	if v := os.Getenv(envFallbackDir); v != "" {
		cfg.FallbackDir = v
	}

	return cfg
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
