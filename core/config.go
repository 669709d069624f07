package core

import (
	"fmt"
	"strings"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

type WebhookConfig struct {
	// Secret is the shared webhook secret. Empty disables signature
	// verification.
	Secret       string `koanf:"secret" mapstructure:"secret"`
	Path         string `koanf:"path" mapstructure:"path"`
	MaxBodyBytes int64  `koanf:"max_body_bytes" mapstructure:"max_body_bytes"`
}

func (c WebhookConfig) SecretConfigured() bool {
	return c.Secret != ""
}

type HTTPConfig struct {
	Addr                   string `koanf:"addr" mapstructure:"addr"`
	ReadTimeoutSeconds     int    `koanf:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `koanf:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

type StoreConfig struct {
	Driver          string `koanf:"driver" mapstructure:"driver"`
	DSN             string `koanf:"dsn" mapstructure:"dsn"`
	RedisURL        string `koanf:"redis_url" mapstructure:"redis_url"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds"`
	Debug           bool   `koanf:"debug" mapstructure:"debug"`
}

type Config struct {
	ServiceName string        `koanf:"service_name" mapstructure:"service_name"`
	Webhook     WebhookConfig `koanf:"webhook" mapstructure:"webhook"`
	HTTP        HTTPConfig    `koanf:"http" mapstructure:"http"`
	Store       StoreConfig   `koanf:"store" mapstructure:"store"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "stargazer",
		Webhook: WebhookConfig{
			Path:         "/webhooks/github/star",
			MaxBodyBytes: 1 << 20,
		},
		HTTP: HTTPConfig{
			Addr:                   ":8080",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Driver: StoreDriverMemory,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.Webhook.Path), "/") {
		return fmt.Errorf("core: webhook.path must start with /")
	}
	if c.Webhook.MaxBodyBytes < 0 {
		return fmt.Errorf("core: webhook.max_body_bytes must not be negative")
	}
	if c.Store.CacheTTLSeconds < 0 {
		return fmt.Errorf("core: store.cache_ttl_seconds must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Store.Driver)) {
	case StoreDriverMemory:
	case StoreDriverSQLite, StoreDriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("core: store.dsn is required for driver %q", c.Store.Driver)
		}
	case StoreDriverRedis:
		if strings.TrimSpace(c.Store.RedisURL) == "" {
			return fmt.Errorf("core: store.redis_url is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("core: unsupported store.driver %q", c.Store.Driver)
	}
	return nil
}
