package config

import "time"

// Config holds runtime settings for the Coinvault CLI.
//
// Fields:
//   - BackendBaseURL: base URL of the hosted backend (auth and data API).
//   - BackendAPIKey: the public API key sent with every request.
//   - RequestTimeout: per-request HTTP timeout.
//   - RefreshLeeway: how long before access-token expiry the client refreshes.
//   - DatabasePath: path of the local sqlite database holding client state.
type Config struct {
	BackendBaseURL string
	BackendAPIKey  string
	RequestTimeout time.Duration
	RefreshLeeway  time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://127.0.0.1:54321"
	c.BackendAPIKey = ""
	c.RequestTimeout = 15 * time.Second
	c.RefreshLeeway = time.Minute
	c.DatabasePath = "coinvault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
