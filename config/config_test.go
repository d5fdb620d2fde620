package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  dsn: "host=db user=app"
redis:
  enabled: true
  ttl: 30s
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	// defaults survive
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: file.db\n")
	t.Setenv("RG_DATABASE_DSN", "override.db")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "override.db", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"sqlite", Config{Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}}, true},
		{"unknown driver", Config{Database: DatabaseConfig{Driver: "mysql", DSN: "x"}}, false},
		{"empty dsn", Config{Database: DatabaseConfig{Driver: "postgres"}}, false},
		{"jwt without secret", Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: "x"},
			JWT:      JWTConfig{Enabled: true},
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
