// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Camunda       CamundaConfig       `mapstructure:"camunda"`
	HTTPEngine    HTTPEngineConfig    `mapstructure:"http_engine"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Jurisdictions JurisdictionsConfig `mapstructure:"jurisdictions"`
	Audit         AuditConfig         `mapstructure:"audit"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// Supported engine transports.
const (
	TransportZeebe = "zeebe"
	TransportRedis = "redis"
	TransportHTTP  = "http"
)

// EngineConfig selects how commands reach the resolution engine.
type EngineConfig struct {
	Transport     string `mapstructure:"transport"`
	Command       string `mapstructure:"command"`
	ScriptCommand string `mapstructure:"script_command"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
	QueuePrefix   string `mapstructure:"queue_prefix"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	AwaitResult    bool   `mapstructure:"await_result"`
	Plaintext      bool   `mapstructure:"plaintext"`
}

type HTTPEngineConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Jurisdiction catalog sources.
const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"
)

// JurisdictionsConfig describes where the county catalog comes from.
type JurisdictionsConfig struct {
	Source  string               `mapstructure:"source"`
	Table   string               `mapstructure:"table"`
	Catalog []JurisdictionConfig `mapstructure:"catalog"`
}

type JurisdictionConfig struct {
	ID    int    `mapstructure:"id"`
	Label string `mapstructure:"label"`
}

// AuditConfig controls the Elasticsearch submission audit trail.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
