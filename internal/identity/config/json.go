package config

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"github.com/dmitrijs2005/recipebook/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// TokenValidity accepts both "1h" strings and integer nanoseconds.
type JsonConfig struct {
	ListenAddr    string         `json:"listen_addr"`
	APIKey        string         `json:"api_key"`
	SecretKey     string         `json:"secret_key"`
	TokenValidity timex.Duration `json:"token_validity"`
	LogLevel      string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, over cfg. Keys the
// file leaves out keep their current values. Comments and trailing commas
// are allowed. Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		ListenAddr:    cfg.ListenAddr,
		APIKey:        cfg.APIKey,
		SecretKey:     cfg.SecretKey,
		TokenValidity: timex.Duration{Duration: cfg.TokenValidity},
		LogLevel:      cfg.LogLevel,
	}
	if err := json.Unmarshal(jsonc.ToJSON(file), c); err != nil {
		panic(err)
	}

	cfg.ListenAddr = c.ListenAddr
	cfg.APIKey = c.APIKey
	cfg.SecretKey = c.SecretKey
	cfg.TokenValidity = c.TokenValidity.Duration
	cfg.LogLevel = c.LogLevel
}
