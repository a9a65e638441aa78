package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/osp/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the backend API
//	-d string     path of the local SQLite database
//	-t duration   per-request timeout ("15s")
//	-r duration   token refresh timeout ("30s")
//	-l string     log level
//
// The function filters os.Args down to the flags it knows about, using
// flagx.FilterArgs, so -c and friends do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the API server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.RefreshTimeout, "r", cfg.RefreshTimeout, "token refresh timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
