package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
)

func TestRun_SessionLifecycle(t *testing.T) {
	stubPassword(t, "secret")
	repo := metadata.NewMemoryRepository()
	a, out := newTestApp(t, newStubIdentity(), repo, "whoami\nrecipes\nsignup\nann@example.org\nwhoami\nlogout\nwhoami\nexit\n")

	require.NoError(t, a.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Welcome to recipebook")
	assert.NotContains(t, got, "Welcome back")
	assert.Contains(t, got, "Not signed in")
	assert.Contains(t, got, "Sign in to open your recipe book")
	assert.Contains(t, got, "Signed in as ann@example.org")
	assert.Contains(t, got, "ann@example.org (id u-ann@example.org)")
	assert.Contains(t, got, "Logged out")
	assert.Contains(t, got, "Bye!")

	raw, err := repo.Get(context.Background(), "userData")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRun_RestoresStoredSession(t *testing.T) {
	repo := metadata.NewMemoryRepository()
	rec := models.SessionRecord{Email: "ann@example.org", ID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	data, err := rec.Encode()
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), "userData", data))

	a, out := newTestApp(t, newStubIdentity(), repo, "whoami\n")
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Welcome back, ann@example.org")
	assert.Contains(t, out.String(), "ann@example.org (id u1)")
}

func TestRun_ExpiredSessionNotRestored(t *testing.T) {
	repo := metadata.NewMemoryRepository()
	rec := models.SessionRecord{Email: "ann@example.org", ID: "u1", Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}
	data, err := rec.Encode()
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), "userData", data))

	a, out := newTestApp(t, newStubIdentity(), repo, "whoami\n")
	require.NoError(t, a.Run(context.Background()))

	assert.NotContains(t, out.String(), "Welcome back")
	assert.Contains(t, out.String(), "Not signed in")

	raw, err := repo.Get(context.Background(), "userData")
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestOpenRepository(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  func(c *config.Config)
	}{
		{"memory", func(c *config.Config) { c.StoreBackend = config.BackendMemory }},
		{"sqlite", func(c *config.Config) {
			c.StoreBackend = config.BackendSQLite
			c.StorePath = filepath.Join(t.TempDir(), "state", "recipebook.db")
		}},
		{"bolt", func(c *config.Config) {
			c.StoreBackend = config.BackendBolt
			c.StorePath = filepath.Join(t.TempDir(), "recipebook.bolt")
		}},
		{"redis", func(c *config.Config) {
			c.StoreBackend = config.BackendRedis
			c.RedisAddr = mr.Addr()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.cfg(cfg)

			repo, closers, err := openRepository(ctx, cfg)
			require.NoError(t, err)

			require.NoError(t, repo.Set(ctx, "userData", []byte(`{"email":"a@b.c"}`)))
			got, err := repo.Get(ctx, "userData")
			require.NoError(t, err)
			assert.Equal(t, `{"email":"a@b.c"}`, string(got))

			for _, c := range closers {
				assert.NoError(t, c())
			}
		})
	}

	assert.True(t, mr.Exists(redisKeyPrefix+"userData"))
}

func TestOpenRepository_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "etcd"

	_, _, err := openRepository(context.Background(), cfg)
	assert.ErrorContains(t, err, `unknown store backend "etcd"`)
}

func TestNewApp_Memory(t *testing.T) {
	a, err := NewApp(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, a.auth)
	assert.Len(t, a.closers, 1)
	a.close(context.Background())
}
