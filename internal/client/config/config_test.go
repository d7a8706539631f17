package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", c.IdentityEndpointURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, BackendSQLite, c.StoreBackend)
	assert.Equal(t, "recipebook.db", c.StorePath)
	assert.Equal(t, "userData", c.SessionKey)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"recipebook"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", cfg.IdentityEndpointURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempConfig(t, `{"store_backend": "bolt", "api_key": "from-file"}`)
	os.Args = []string{"recipebook", "-c", path, "-k", "from-flag"}

	cfg := LoadConfig()

	assert.Equal(t, BackendBolt, cfg.StoreBackend)
	assert.Equal(t, "from-flag", cfg.APIKey)
}
