// Package config handles configuration for the reference API server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the OSP reference server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - ProviderSecrets: HMAC secret per social provider, used to verify id tokens.
//   - SeedUsers: username to password pairs created at startup.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. An empty
//     bucket disables thumbnail presigning.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr                 string            `env:"ENDPOINT_ADDR"`
	DatabaseDSN                  string            `env:"DATABASE_DSN"`
	SecretKey                    string            `env:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration     `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration     `env:"REFRESH_TOKEN_TTL"`
	ProviderSecrets              map[string]string `env:"PROVIDER_SECRETS"`
	SeedUsers                    map[string]string `env:"SEED_USERS"`
	S3RootUser                   string            `env:"S3_ROOT_USER"`
	S3RootPassword               string            `env:"S3_ROOT_PASSWORD"`
	S3Bucket                     string            `env:"S3_BUCKET"`
	S3Region                     string            `env:"S3_REGION"`
	S3BaseEndpoint               string            `env:"S3_BASE_ENDPOINT"`
	LogLevel                     string            `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 60 * time.Minute
	c.ProviderSecrets = map[string]string{
		"google": "google-dev-secret",
		"apple":  "apple-dev-secret",
	}
	c.SeedUsers = map[string]string{}
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// S3Enabled reports whether thumbnails should be presigned.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, OSP_SERVER_* environment variables and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
