package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharv3903/metronav/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DB_DSN", "METRONAV_ADDR", "METRONAV_SOURCE", "METRONAV_NETWORK", "METRONAV_NETWORK_NAME",
		"METRONAV_DRIVER", "METRONAV_DSN", "METRONAV_LOG_LEVEL", "METRONAV_STRICT_WEIGHTS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "metronav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
source: db
driver: sqlite
dsn: "file:from-yaml.db"
network_name: spb
cache_capacity: 16
log_level: debug
`), 0o644))

	t.Setenv("DB_DSN", "legacy")
	t.Setenv("METRONAV_DSN", "file:from-env.db")
	t.Setenv("METRONAV_STRICT_WEIGHTS", "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := config.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--addr", ":7000"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr, "flag beats file")
	assert.Equal(t, "file:from-env.db", cfg.DSN, "env beats file")
	assert.True(t, cfg.StrictWeights)
	assert.Equal(t, config.SourceDB, cfg.Source)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "spb", cfg.NetworkName)
	assert.Equal(t, 16, cfg.CacheCapacity, "unset flag keeps file value")
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_LegacyDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "user@tcp(localhost:3306)/metro")
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "user@tcp(localhost:3306)/metro", cfg.DSN)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("addr: [unclosed"), 0o644))
	_, err = config.Load(bad, nil)
	require.Error(t, err)

	t.Setenv("METRONAV_STRICT_WEIGHTS", "maybe")
	_, err = config.Load("", nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Source = "ftp"
	cfg.Driver = "oracle"
	cfg.CacheCapacity = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "ftp"`)
	assert.Contains(t, err.Error(), `unknown driver "oracle"`)
	assert.Contains(t, err.Error(), "negative")

	cfg = config.Default()
	cfg.Source = config.SourceDB
	require.ErrorContains(t, cfg.Validate(), "needs a DSN")

	cfg = config.Default()
	cfg.NetworkFile = ""
	require.ErrorContains(t, cfg.Validate(), "network file")
}
