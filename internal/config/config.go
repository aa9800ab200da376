package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process settings for the chartembed CLI.
type Config struct {
	// HTTP server
	BindAddr  string
	RoutePath string

	// Rendering
	Document string
	Output   string
	Theme    string
	Variant  string
	Snippets bool
	Reload   bool

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from environment variables and an optional .env
// file. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:  getEnvOrDefault("CHARTEMBED_BIND_ADDR", "127.0.0.1:8080"),
		RoutePath: getEnvOrDefault("CHARTEMBED_ROUTE_PATH", "/figures"),
		Document:  getEnvOrDefault("CHARTEMBED_DOCUMENT", ""),
		Output:    getEnvOrDefault("CHARTEMBED_OUTPUT", ""),
		Theme:     getEnvOrDefault("CHARTEMBED_THEME", ""),
		Variant:   getEnvOrDefault("CHARTEMBED_VARIANT", ""),
		Snippets:  getEnvBoolOrDefault("CHARTEMBED_SNIPPETS", false),
		Reload:    getEnvBoolOrDefault("CHARTEMBED_RELOAD", false),
		LogLevel:  getEnvOrDefault("CHARTEMBED_LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("CHARTEMBED_LOG_FORMAT", "text"),
		LogFile:   getEnvOrDefault("CHARTEMBED_LOG_FILE", ""),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
