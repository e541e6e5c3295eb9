// Package config содержит логику чтения конфигурации бэк-офиса barberpos.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultRunAddress = "localhost:8080"

// Config содержит параметры конфигурации бэк-офиса.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	// LogMode принимает значения production или development.
	LogMode string `env:"LOG_MODE"`
	LogFile string `env:"LOG_FILE"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами. Значения из .env не перекрывают
// уже заданные переменные окружения.
func Parse() (*Config, error) {
	// .env необязателен.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret key for signing auth tokens")
	flag.StringVar(&cfg.LogMode, "l", "production", "log mode: production or development")
	flag.StringVar(&cfg.LogFile, "f", "", "path to rotated log file")

	flag.Parse()

	override(&cfg.RunAddress, envCfg.RunAddress)
	override(&cfg.DatabaseURI, envCfg.DatabaseURI)
	override(&cfg.AuthSecret, envCfg.AuthSecret)
	override(&cfg.LogMode, envCfg.LogMode)
	override(&cfg.LogFile, envCfg.LogFile)

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if cfg.LogMode != "production" && cfg.LogMode != "development" {
		return nil, fmt.Errorf("unknown log mode %q", cfg.LogMode)
	}

	return cfg, nil
}

func override(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}
