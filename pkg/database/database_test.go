package database

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/relation-models/config"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", sqliteDSN("file::memory:?cache=shared"))
	assert.Equal(t, "relation.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", sqliteDSN("relation.db"))
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", sqliteDSN("file:x.db?cache=shared"))
	assert.Equal(t, "a.db?_fk=1&_busy_timeout=5000&_txlock=immediate", sqliteDSN("a.db?_fk=1"))
	assert.Equal(t, "a.db?_fk=1&_busy_timeout=100&_txlock=deferred", sqliteDSN("a.db?_fk=1&_busy_timeout=100&_txlock=deferred"))
}

func TestOpenSqliteFileWaitsForLocks(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "relation.db"), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var timeout int
	require.NoError(t, db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)
}

func TestOpenSqliteEnforcesForeignKeys(t *testing.T) {
	db, err := Open("sqlite", ":memory:", "silent")
	require.NoError(t, err)

	var on int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&on).Error)
	assert.Equal(t, 1, on)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x", "silent")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	cfg := &config.Config{}
	client, err := InitRedis(cfg)
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Addr: mr.Addr()}
	client, err = InitRedis(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
}
