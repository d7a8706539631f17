// Package config handles configuration for the local identity endpoint,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the identity endpoint.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - APIKey: key every request must carry in its "key" query parameter.
//   - SecretKey: HMAC secret for signing id tokens (HS256). Do not use test defaults in prod.
//   - TokenValidity: lifetime reported as expiresIn and written into the token.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ListenAddr    string
	APIKey        string
	SecretKey     string
	TokenValidity time.Duration
	LogLevel      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8099"
	c.APIKey = "dev-key"
	c.SecretKey = "secretKey"
	c.TokenValidity = time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
