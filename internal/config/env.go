package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is a DTO used exclusively for environment parsing. No envDefault
// tags on purpose: an unset variable must keep the value from earlier stages.
type envConfig struct {
	BackendBaseURL string `env:"COINVAULT_BACKEND_URL"`
	BackendAPIKey  string `env:"COINVAULT_API_KEY"`
	RequestTimeout string `env:"COINVAULT_REQUEST_TIMEOUT"`
	RefreshLeeway  string `env:"COINVAULT_REFRESH_LEEWAY"`
	DatabasePath   string `env:"COINVAULT_DB_PATH"`
}

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; a missing file is not
// an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BackendBaseURL != "" {
		cfg.BackendBaseURL = ec.BackendBaseURL
	}
	if ec.BackendAPIKey != "" {
		cfg.BackendAPIKey = ec.BackendAPIKey
	}
	if ec.RequestTimeout != "" {
		if d, err := time.ParseDuration(ec.RequestTimeout); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if ec.RefreshLeeway != "" {
		if d, err := time.ParseDuration(ec.RefreshLeeway); err == nil {
			cfg.RefreshLeeway = d
		}
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
}
