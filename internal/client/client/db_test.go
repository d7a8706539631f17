package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesMetadataTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "recipebook.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "recipebook.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run should be a no-op")
	require.True(t, tableExists(t, db, "metadata"))
}

func TestInitDatabase_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "recipebook.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO metadata(key, value) VALUES ('userData', '{}')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	var v string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'userData'`).Scan(&v))
	require.Equal(t, "{}", v)
}
