package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/osp/internal/flagx"
	"github.com/dmitrijs2005/osp/internal/timex"
)

// JsonConfig is the JSON form of Config. Durations go through timex.Duration,
// which accepts both "1m" and integer nanoseconds. Absent fields keep their
// current value.
type JsonConfig struct {
	EndpointAddr                 *string           `json:"endpoint_addr"`
	DatabaseDSN                  *string           `json:"database_dsn"`
	SecretKey                    *string           `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration   `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration   `json:"refresh_token_validity_duration"`
	ProviderSecrets              map[string]string `json:"provider_secrets"`
	SeedUsers                    map[string]string `json:"seed_users"`
	S3RootUser                   *string           `json:"s3_root_user"`
	S3RootPassword               *string           `json:"s3_root_password"`
	S3Bucket                     *string           `json:"s3_bucket"`
	S3Region                     *string           `json:"s3_region"`
	S3BaseEndpoint               *string           `json:"s3_base_endpoint"`
	LogLevel                     *string           `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without either flag nothing is loaded.
//
// Panics if the file cannot be read or contains invalid JSON.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.ProviderSecrets != nil {
		config.ProviderSecrets = c.ProviderSecrets
	}
	if c.SeedUsers != nil {
		config.SeedUsers = c.SeedUsers
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
