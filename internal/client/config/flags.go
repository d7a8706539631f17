package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

var ownedFlags = []string{"-a", "-k", "-t", "-s", "-p", "-r", "-l"}

// parseFlags populates cfg from the flags it owns in args; see the package
// documentation for the list. Other flags are filtered out beforehand.
// Invalid values and unknown storage backends panic.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("recipebook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.IdentityEndpointURL, "a", cfg.IdentityEndpointURL, "identity endpoint base URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "identity provider API key")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "identity request timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "session storage backend")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "database file for sqlite and bolt backends")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownedFlags)); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second

	switch cfg.StoreBackend {
	case BackendSQLite, BackendBolt, BackendRedis, BackendMemory:
	default:
		panic(fmt.Sprintf("unknown store backend %q", cfg.StoreBackend))
	}
}
