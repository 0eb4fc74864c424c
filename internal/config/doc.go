// Package config loads runtime configuration for the Coinvault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), with an optional .env file.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend
//	-k string   backend API key
//	-t int      request timeout (seconds)
//	-d string   path of the local database file
//
// Environment variables
//
//	COINVAULT_BACKEND_URL, COINVAULT_API_KEY, COINVAULT_REQUEST_TIMEOUT,
//	COINVAULT_REFRESH_LEEWAY, COINVAULT_DB_PATH
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "backend_base_url": "https://api.example.com",
//	  "backend_api_key": "public-key",
//	  "request_timeout": "15s",
//	  "refresh_leeway": "1m",
//	  "database_path": "coinvault.db"
//	}
package config
