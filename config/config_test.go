package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadWithEnvReadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
env:
  env: test
  serviceName: pinbook
  log:
    level: debug
    pretty: true
http:
  port: 8080
postgres:
  host: localhost
  port: 5432
  username: pinbook
  dbName: pinbook
`)
	t.Chdir(dir)

	cfg, err := LoadWithEnv[Config]("config")

	require.NoError(t, err)
	assert.Equal(t, "pinbook", cfg.Env.ServiceName)
	assert.Equal(t, "debug", cfg.Env.Log.Level)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
}

func TestLoadWithEnvAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
http:
  port: 8080
postgres:
  host: localhost
  port: 5432
`)
	t.Chdir(dir)
	t.Setenv("PINBOOK_POSTGRES_HOST", "db.internal")
	t.Setenv("PINBOOK_HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("config")

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadWithEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")

	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		UserName: "pinbook",
		Password: "secret",
		DBName:   "pinbook",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=pinbook password=secret dbname=pinbook sslmode=disable",
		cfg.DSN())
}
