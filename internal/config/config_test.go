package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "valtrack", cfg.Database.Name)
	assert.Equal(t, 60, cfg.Recalc.IntervalMinutes)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: db.internal
  name: valtrack_prod
recalc:
  interval_minutes: 15
log_level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "valtrack_prod", cfg.Database.Name)
	// unset file fields keep their defaults
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 15, cfg.Recalc.IntervalMinutes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n"), 0o600))

	t.Setenv("VALTRACK_DB_HOST", "from-env")
	t.Setenv("VALTRACK_DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recalc:\n  interval_minutes: -5\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveMaxOpenConns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  max_open_conns: 0\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPool(t *testing.T) {
	db := DatabaseConfig{
		MaxOpenConns:           10,
		MaxIdleConns:           2,
		ConnMaxLifetimeMinutes: 15,
	}
	pool := db.Pool()
	assert.Equal(t, 10, pool.MaxOpenConns)
	assert.Equal(t, 2, pool.MaxIdleConns)
	assert.Equal(t, 15*time.Minute, pool.ConnMaxLifetime)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		Name:     "valtrack",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=valtrack sslmode=disable",
		db.DSN(),
	)
}
