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

// ==========================
// LoadFromFile
// ==========================

func TestLoadFromFile_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, TransportZeebe, cfg.Engine.Transport)
	assert.Equal(t, "set_search_input", cfg.Engine.Command)
	assert.Equal(t, "run_python_script", cfg.Engine.ScriptCommand)
	assert.Equal(t, 30000, cfg.Engine.Timeout)
	assert.Equal(t, CatalogStatic, cfg.Jurisdictions.Source)
	assert.Len(t, cfg.Jurisdictions.Catalog, 6)
	assert.Equal(t, "search-submissions", cfg.Audit.Index)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ENGINE_URL", "http://engine.local:8080")
	path := writeConfig(t, `
engine:
  transport: http
http_engine:
  base_url: ${TEST_ENGINE_URL}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://engine.local:8080", cfg.HTTPEngine.BaseURL)
	assert.Equal(t, 30000, cfg.HTTPEngine.Timeout)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_REDIS_ADDRESS", "redis.local:6379")
	path := writeConfig(t, `
engine:
  transport: redis
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.local:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_CustomCatalog(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
jurisdictions:
  catalog:
    - id: 10
      label: Monroe
    - id: 11
      label: Dade
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Jurisdictions.Catalog, 2)
	assert.Equal(t, JurisdictionConfig{ID: 10, Label: "Monroe"}, cfg.Jurisdictions.Catalog[0])
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// ==========================
// validateConfig
// ==========================

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Camunda.BrokerAddress = "localhost:26500"
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid zeebe", mutate: func(*Config) {}},
		{
			name:    "zeebe without broker",
			mutate:  func(c *Config) { c.Camunda.BrokerAddress = "" },
			wantErr: "camunda.broker_address",
		},
		{
			name:    "redis without address",
			mutate:  func(c *Config) { c.Engine.Transport = TransportRedis },
			wantErr: "database.redis.address",
		},
		{
			name:    "http without base url",
			mutate:  func(c *Config) { c.Engine.Transport = TransportHTTP },
			wantErr: "http_engine.base_url",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Engine.Transport = "carrier-pigeon" },
			wantErr: "engine.transport",
		},
		{
			name: "duplicate catalog id",
			mutate: func(c *Config) {
				c.Jurisdictions.Catalog = []JurisdictionConfig{{ID: 1, Label: "Lee"}, {ID: 1, Label: "Collier"}}
			},
			wantErr: "duplicate id 1",
		},
		{
			name: "blank catalog label",
			mutate: func(c *Config) {
				c.Jurisdictions.Catalog = []JurisdictionConfig{{ID: 1, Label: "  "}}
			},
			wantErr: "empty label",
		},
		{
			name:    "postgres catalog without host",
			mutate:  func(c *Config) { c.Jurisdictions.Source = CatalogPostgres },
			wantErr: "database.postgres.host",
		},
		{
			name:    "audit without elasticsearch",
			mutate:  func(c *Config) { c.Audit.Enabled = true },
			wantErr: "elasticsearch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "records", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=records sslmode=disable", p.GetDSN())
}
