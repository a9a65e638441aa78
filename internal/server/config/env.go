package config

import "github.com/caarlos0/env/v11"

const envPrefix = "OSP_SERVER_"

// parseEnv overlays Config with OSP_SERVER_* environment variables. Maps are
// written as "google:secret,apple:secret".
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
