// Package config reads kiplot defaults from the environment.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the defaults the CLI flags start from.
type Config struct {
	Theme    string
	Format   string
	Scale    float64
	Border   bool
	FontDir  string
	Workers  int
	LogLevel string
	TempDir  string
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil || intVal <= 0 {
		return defaultValue
	}
	return intVal
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

// Load reads .env files from the working directory, when present, and
// then the KIPLOT_* environment. Variables already set in the
// environment win over .env entries. Malformed values keep the default.
func Load() Config {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("kiplot.env")

	return FromEnv()
}

// FromEnv reads the KIPLOT_* environment without touching .env files.
func FromEnv() Config {
	return Config{
		Theme:    getEnv("KIPLOT_THEME", "kicad_2000"),
		Format:   getEnv("KIPLOT_FORMAT", "svg"),
		Scale:    getEnvFloat("KIPLOT_SCALE", 1),
		Border:   getEnvBool("KIPLOT_BORDER", false),
		FontDir:  getEnv("KIPLOT_FONT_DIR", ""),
		Workers:  getEnvInt("KIPLOT_WORKERS", 4),
		LogLevel: getEnv("KIPLOT_LOG_LEVEL", "info"),
		TempDir:  getEnv("KIPLOT_TEMP_DIR", os.TempDir()),
	}
}

// ParseLevel maps a level name to a slog level. Unknown names give info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w. verbose forces debug
// level, otherwise LogLevel applies.
func (c Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := ParseLevel(c.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
