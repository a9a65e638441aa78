package config

import "github.com/caarlos0/env/v11"

const envPrefix = "OSP_"

// parseEnv overlays Config with OSP_* environment variables. Unset variables
// leave the current values alone. Duration variables use Go syntax ("20s").
//
// Panics on malformed values, like the other loaders.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
