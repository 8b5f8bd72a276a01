package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_DATABASE", "catalog")
	t.Setenv("DB_USER", "harvester")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)

	parsed, err := pgconn.ParseConfig(cfg.Database.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", parsed.Host)
	assert.Equal(t, uint16(6543), parsed.Port)
	assert.Equal(t, "harvester", parsed.User)
	assert.Equal(t, "secret", parsed.Password)
	assert.Equal(t, "catalog", parsed.Database)

	assert.Equal(t, "https://fashionunited.com/brands", cfg.Brands.URL)
	assert.Equal(t, 100000, cfg.Brands.MaxScrolls)
	assert.Equal(t, 250, cfg.Trends.MaxScrolls)
	assert.Equal(t, 2*time.Second, cfg.Trends.Pause)
	assert.Equal(t, "span.MuiChip-label", cfg.Brands.ChipLabel)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.False(t, cfg.Redis.Enabled)
}

func TestDSNKeepsCredentialsIntact(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		password string
	}{
		{name: "empty password", user: "postgres", password: ""},
		{name: "password with space", user: "postgres", password: "pa ss"},
		{name: "password with quotes", user: "postgres", password: `it's\"odd`},
		{name: "reserved characters", user: "ops@team", password: "p@ss:w/rd?#%"},
	}

	// keep a local ~/.pgpass from filling in the empty password
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "pgpass"))
	t.Setenv("PGPASSWORD", "")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "fashion",
				User:     tc.user,
				Password: tc.password,
				SSLMode:  "disable",
			}

			parsed, err := pgconn.ParseConfig(db.DSN())
			require.NoError(t, err)
			assert.Equal(t, "fashion", parsed.Database)
			assert.Equal(t, tc.user, parsed.User)
			assert.Equal(t, tc.password, parsed.Password)
			assert.Equal(t, "localhost", parsed.Host)
			assert.Nil(t, parsed.TLSConfig)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_HOST=from-dotenv\nDB_DATABASE=fashion\n"), 0o600))
	// godotenv never overrides variables that are already set.
	for _, key := range []string{"DB_HOST", "DB_DATABASE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Database.Host)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "harvester.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
trends:
  max_scrolls: 5
  pause: 500ms
normalizer:
  min_score: 80
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Trends.MaxScrolls)
	assert.Equal(t, 500*time.Millisecond, cfg.Trends.Pause)
	assert.Equal(t, 80.0, cfg.Normalizer.MinScore)
	assert.Equal(t, "https://fashionunited.com/just-in", cfg.Trends.URL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsNegativeBudget(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", Name: "fashion"},
		Brands:   BrandsConfig{HarvestConfig: HarvestConfig{MaxScrolls: -1}},
	}
	assert.Error(t, cfg.Validate())
}
