package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration values.
type Config struct {
	Env             string
	HTTPPort        string
	DatabaseDriver  string
	DatabaseDSN     string
	LogLevel        string
	LogFormat       string
	LogOutput       string
	MedicineCatalog string
	AllowedOrigins  []string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() (Config, error) {
	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		HTTPPort:        getenv("HTTP_PORT", "8080"),
		DatabaseDriver:  strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
		LogOutput:       getenv("LOG_OUTPUT", "stdout"),
		MedicineCatalog: os.Getenv("MEDICINE_CATALOG"),
		AllowedOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
		if cfg.Env == "production" {
			cfg.LogFormat = "json"
		}
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT value %q", cfg.HTTPPort)
	}

	switch cfg.DatabaseDriver {
	case "sqlite":
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = "medibill.db"
		}
	case "postgres":
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				getenv("DB_USER", "postgres"),
				os.Getenv("DB_PASSWORD"),
				getenv("DB_HOST", "localhost"),
				getenv("DB_PORT", "5432"),
				getenv("DB_NAME", "medibill"),
				getenv("DB_SSLMODE", "disable"),
			)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q: want sqlite or postgres", cfg.DatabaseDriver)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
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
