package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-stargazer/core"
	"github.com/sethvargo/go-envconfig"
)

type envStore struct {
	Driver          string `env:"DRIVER"`
	DSN             string `env:"DSN"`
	RedisURL        string `env:"REDIS_URL"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS"`
	Debug           bool   `env:"DEBUG"`
}

type envHTTP struct {
	Addr                   string `env:"ADDR"`
	ReadTimeoutSeconds     int    `env:"READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds    int    `env:"WRITE_TIMEOUT_SECONDS"`
	ShutdownTimeoutSeconds int    `env:"SHUTDOWN_TIMEOUT_SECONDS"`
}

type envWebhook struct {
	Path         string `env:"PATH"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES"`
}

// envConfig holds the environment overrides. Unset variables stay zero and
// do not override lower layers.
type envConfig struct {
	WebhookSecret string     `env:"GITHUB_WEBHOOK_SECRET"`
	ServiceName   string     `env:"STARGAZER_SERVICE_NAME"`
	Webhook       envWebhook `env:",prefix=STARGAZER_WEBHOOK_"`
	HTTP          envHTTP    `env:",prefix=STARGAZER_HTTP_"`
	Store         envStore   `env:",prefix=STARGAZER_STORE_"`
}

func (e envConfig) runtime() core.Config {
	return core.Config{
		ServiceName: e.ServiceName,
		Webhook: core.WebhookConfig{
			Secret:       e.WebhookSecret,
			Path:         e.Webhook.Path,
			MaxBodyBytes: e.Webhook.MaxBodyBytes,
		},
		HTTP: core.HTTPConfig{
			Addr:                   e.HTTP.Addr,
			ReadTimeoutSeconds:     e.HTTP.ReadTimeoutSeconds,
			WriteTimeoutSeconds:    e.HTTP.WriteTimeoutSeconds,
			ShutdownTimeoutSeconds: e.HTTP.ShutdownTimeoutSeconds,
		},
		Store: core.StoreConfig{
			Driver:          e.Store.Driver,
			DSN:             e.Store.DSN,
			RedisURL:        e.Store.RedisURL,
			CacheTTLSeconds: e.Store.CacheTTLSeconds,
			Debug:           e.Store.Debug,
		},
	}
}

// loadConfig layers defaults < config file < environment. A nil lookuper
// reads the process environment.
func loadConfig(ctx context.Context, path string, lookuper envconfig.Lookuper) (core.Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	var env envConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return core.Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg, err := core.ResolveConfig(
		ctx,
		core.NewCfgxConfigProvider(core.YAMLFileConfigLoader{Path: path}),
		core.GoOptionsResolver{},
		env.runtime(),
	)
	if err != nil {
		return core.Config{}, fmt.Errorf("resolve config: %w", err)
	}
	return cfg, nil
}
