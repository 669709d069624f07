package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// ResolveConfig loads configuration through provider and merges it with the
// runtime overrides using resolver. Nil arguments fall back to the defaults.
func ResolveConfig(
	ctx context.Context,
	provider ConfigProvider,
	resolver OptionsResolver,
	runtime Config,
) (Config, error) {
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	defaults := DefaultConfig()
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return resolver.Resolve(defaults, loaded, runtime)
}

type StaticRawConfigLoader struct {
	Values map[string]any
}

func (l StaticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = StaticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			ConfigToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			ConfigToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			ConfigToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// ConfigToLayerMap flattens cfg into the raw map shape cfgx decodes. When
// includeZero is false only fields carrying a value are emitted, so that
// an upper layer never blanks a lower one.
func ConfigToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}

	webhook := map[string]any{}
	if includeZero || cfg.Webhook.Secret != "" {
		webhook["secret"] = cfg.Webhook.Secret
	}
	if includeZero || strings.TrimSpace(cfg.Webhook.Path) != "" {
		webhook["path"] = cfg.Webhook.Path
	}
	if includeZero || cfg.Webhook.MaxBodyBytes != 0 {
		webhook["max_body_bytes"] = cfg.Webhook.MaxBodyBytes
	}
	if len(webhook) > 0 {
		layer["webhook"] = webhook
	}

	httpLayer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.HTTP.Addr) != "" {
		httpLayer["addr"] = cfg.HTTP.Addr
	}
	if includeZero || cfg.HTTP.ReadTimeoutSeconds != 0 {
		httpLayer["read_timeout_seconds"] = cfg.HTTP.ReadTimeoutSeconds
	}
	if includeZero || cfg.HTTP.WriteTimeoutSeconds != 0 {
		httpLayer["write_timeout_seconds"] = cfg.HTTP.WriteTimeoutSeconds
	}
	if includeZero || cfg.HTTP.ShutdownTimeoutSeconds != 0 {
		httpLayer["shutdown_timeout_seconds"] = cfg.HTTP.ShutdownTimeoutSeconds
	}
	if len(httpLayer) > 0 {
		layer["http"] = httpLayer
	}

	store := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Store.Driver) != "" {
		store["driver"] = cfg.Store.Driver
	}
	if includeZero || strings.TrimSpace(cfg.Store.DSN) != "" {
		store["dsn"] = cfg.Store.DSN
	}
	if includeZero || strings.TrimSpace(cfg.Store.RedisURL) != "" {
		store["redis_url"] = cfg.Store.RedisURL
	}
	if includeZero || cfg.Store.CacheTTLSeconds != 0 {
		store["cache_ttl_seconds"] = cfg.Store.CacheTTLSeconds
	}
	if includeZero || cfg.Store.Debug {
		store["debug"] = cfg.Store.Debug
	}
	if len(store) > 0 {
		layer["store"] = store
	}
	return layer
}
