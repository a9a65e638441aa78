package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/osp/internal/common"
)

// Config holds runtime settings for the OSP command-line client.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the backend API, without a trailing slash.
//   - DatabasePath: SQLite file holding the session credentials.
//   - RequestTimeout: upper bound for a single HTTP exchange.
//   - RefreshTimeout: upper bound for one token refresh shared by all waiters.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	DatabasePath   string        `env:"DB_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.DatabasePath = defaultDatabasePath()
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 30 * time.Second
	c.LogLevel = "warn"
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".osp", "osp.db")
	}
	return filepath.Join(home, ".osp", "osp.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), OSP_* environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
