package config

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"github.com/dmitrijs2005/recipebook/internal/timex"
)

// JsonConfig is the on-disk shape of the config file.
type JsonConfig struct {
	IdentityEndpointURL string         `json:"identity_endpoint_url"`
	APIKey              string         `json:"api_key"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	StoreBackend        string         `json:"store_backend"`
	StorePath           string         `json:"store_path"`
	RedisAddr           string         `json:"redis_addr"`
	SessionKey          string         `json:"session_key"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config in args. Nothing
// happens when no file is named. Read and decode errors panic, like flag
// errors do.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		IdentityEndpointURL: cfg.IdentityEndpointURL,
		APIKey:              cfg.APIKey,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		StoreBackend:        cfg.StoreBackend,
		StorePath:           cfg.StorePath,
		RedisAddr:           cfg.RedisAddr,
		SessionKey:          cfg.SessionKey,
		LogLevel:            cfg.LogLevel,
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		panic(err)
	}

	cfg.IdentityEndpointURL = jc.IdentityEndpointURL
	cfg.APIKey = jc.APIKey
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.StoreBackend = jc.StoreBackend
	cfg.StorePath = jc.StorePath
	cfg.RedisAddr = jc.RedisAddr
	cfg.SessionKey = jc.SessionKey
	cfg.LogLevel = jc.LogLevel
}
