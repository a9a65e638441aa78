// Package config loads runtime configuration for the OSP CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. OSP_* environment variables (see parseEnv). main loads a .env file first.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend API
//	-d string     local SQLite database path
//	-t duration   per-request timeout
//	-r duration   token refresh timeout
//	-l string     log level
//
// Environment
//
//	OSP_API_BASE_URL, OSP_DB_PATH, OSP_REQUEST_TIMEOUT, OSP_REFRESH_TIMEOUT, OSP_LOG_LEVEL
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "database_path": "/home/me/.osp/osp.db",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "30s",
//	  "log_level": "info"
//	}
package config
