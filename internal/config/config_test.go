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

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "user:pass@tcp(localhost:3306)/links"
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "debug", c.Server.Mode)
	assert.Empty(t, c.Server.TrustedProxies)
	assert.Equal(t, "mysql", c.Database.Driver)
	assert.Equal(t, 30*time.Second, c.Cache.LinkTTL)
	assert.Equal(t, 2*time.Second, c.Resolver.StorageTimeout)
	assert.Equal(t, 2*time.Second, c.Resolver.CredentialTimeout)
	assert.Equal(t, 10, c.Credential.BcryptCost)
	assert.Equal(t, 1024, c.Recorder.QueueSize)
	assert.Equal(t, 4, c.Recorder.Workers)
	assert.Equal(t, "CF-IPCountry", c.GeoIP.CountryHeader)
	assert.Equal(t, "click_event", c.RocketMQ.Topic)
	assert.Same(t, c, Get())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TEST_SESSION_SECRET", "s3cr3t")
	t.Setenv("LINKRELAY_SERVER_PORT", "9090")

	path := writeConfig(t, `
server:
  mode: release
  trusted_proxies:
    - 10.0.0.0/8
database:
  driver: sqlite
  dsn: "file:links.db"
resolver:
  storage_timeout: 500ms
  credential_timeout: 1s
session:
  secret: ${TEST_SESSION_SECRET}
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "release", c.Server.Mode)
	assert.Equal(t, []string{"10.0.0.0/8"}, c.Server.TrustedProxies)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, 500*time.Millisecond, c.Resolver.StorageTimeout)
	assert.Equal(t, "s3cr3t", c.Session.Secret)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		path := writeConfig(t, `
database:
  driver: oracle
  dsn: "x"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("missing dsn", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 8080\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "database.dsn")
	})
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SOME_VALUE", "expanded")

	assert.Equal(t, "expanded", expandEnv("${SOME_VALUE}"))
	assert.Equal(t, "plain", expandEnv("plain"))
	assert.Equal(t, "", expandEnv("${UNSET_VALUE_FOR_TEST}"))
}
