package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/common"
)

// Storage backends accepted in Config.StoreBackend.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the recipebook shell.
//
// Fields:
//   - IdentityEndpointURL: base URL of the identity endpoint (…/v1).
//   - APIKey: provider key appended to every identity request.
//   - RequestTimeout: transport timeout for a single identity request.
//   - StoreBackend: where the session record is kept (sqlite, bolt, redis, memory).
//   - StorePath: database file for the sqlite and bolt backends.
//   - RedisAddr: host:port for the redis backend.
//   - SessionKey: storage key of the persisted session record.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	IdentityEndpointURL string
	APIKey              string
	RequestTimeout      time.Duration
	StoreBackend        string
	StorePath           string
	RedisAddr           string
	SessionKey          string
	LogLevel            string
}

// LoadDefaults populates c with defaults that talk to the hosted identity
// endpoint and keep the session in a local SQLite file.
func (c *Config) LoadDefaults() {
	c.IdentityEndpointURL = "https://identitytoolkit.googleapis.com/v1"
	c.APIKey = ""
	c.RequestTimeout = 10 * time.Second
	c.StoreBackend = BackendSQLite
	c.StorePath = "recipebook.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionKey = common.SessionStorageKey
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if any) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
