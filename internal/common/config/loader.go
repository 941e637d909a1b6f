// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultCatalog mirrors the counties the resolution engine knows how to search.
var DefaultCatalog = []JurisdictionConfig{
	{ID: 1, Label: "Lee"},
	{ID: 2, Label: "Collier"},
	{ID: 3, Label: "Charlotte"},
	{ID: 4, Label: "Hendry"},
	{ID: 5, Label: "Clark"},
	{ID: 6, Label: "Island"},
}

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and applies environment overrides. A missing base file is not an error.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about.
	v.SetDefault("engine.transport", TransportZeebe)
	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("http_engine.base_url", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.elasticsearch.url", "")
	v.SetDefault("logging.level", "info")
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking towards the project root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "records-search"
	}

	// Engine defaults
	if cfg.Engine.Transport == "" {
		cfg.Engine.Transport = TransportZeebe
	}
	if cfg.Engine.Command == "" {
		cfg.Engine.Command = "set_search_input"
	}
	if cfg.Engine.ScriptCommand == "" {
		cfg.Engine.ScriptCommand = "run_python_script"
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 30000
	}
	if cfg.Engine.QueuePrefix == "" {
		cfg.Engine.QueuePrefix = "records-search"
	}

	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}
	if cfg.HTTPEngine.Timeout == 0 {
		cfg.HTTPEngine.Timeout = cfg.Engine.Timeout
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 5
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Catalog defaults
	if cfg.Jurisdictions.Source == "" {
		cfg.Jurisdictions.Source = CatalogStatic
	}
	if cfg.Jurisdictions.Table == "" {
		cfg.Jurisdictions.Table = "jurisdictions"
	}
	if cfg.Jurisdictions.Source == CatalogStatic && len(cfg.Jurisdictions.Catalog) == 0 {
		cfg.Jurisdictions.Catalog = append([]JurisdictionConfig(nil), DefaultCatalog...)
	}

	if cfg.Audit.Index == "" {
		cfg.Audit.Index = "search-submissions"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Engine.Transport {
	case TransportZeebe:
		if cfg.Camunda.BrokerAddress == "" {
			return fmt.Errorf("camunda.broker_address is required for the zeebe transport")
		}
	case TransportRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis transport")
		}
	case TransportHTTP:
		if cfg.HTTPEngine.BaseURL == "" {
			return fmt.Errorf("http_engine.base_url is required for the http transport")
		}
	default:
		return fmt.Errorf("engine.transport must be one of zeebe, redis, http (got %q)", cfg.Engine.Transport)
	}

	switch cfg.Jurisdictions.Source {
	case CatalogStatic:
		seen := make(map[int]bool, len(cfg.Jurisdictions.Catalog))
		for _, j := range cfg.Jurisdictions.Catalog {
			if seen[j.ID] {
				return fmt.Errorf("jurisdictions.catalog has duplicate id %d", j.ID)
			}
			if strings.TrimSpace(j.Label) == "" {
				return fmt.Errorf("jurisdictions.catalog id %d has an empty label", j.ID)
			}
			seen[j.ID] = true
		}
	case CatalogPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres catalog")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres catalog")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("jurisdictions.source must be static or postgres (got %q)", cfg.Jurisdictions.Source)
	}

	if cfg.Audit.Enabled && cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required when audit is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
