package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/flagx"
	"github.com/dmitrijs2005/coinvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds.
type JsonConfig struct {
	BackendBaseURL string         `json:"backend_base_url"`
	BackendAPIKey  string         `json:"backend_api_key"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshLeeway  timex.Duration `json:"refresh_leeway"`
	DatabasePath   string         `json:"database_path"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flag; when neither is set, nothing is
// loaded. Absent JSON fields keep their earlier values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendBaseURL != "" {
		cfg.BackendBaseURL = jc.BackendBaseURL
	}
	if jc.BackendAPIKey != "" {
		cfg.BackendAPIKey = jc.BackendAPIKey
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.RefreshLeeway.Duration != 0 {
		cfg.RefreshLeeway = time.Duration(jc.RefreshLeeway.Duration)
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
}
