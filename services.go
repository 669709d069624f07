package stargazer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-stargazer/adapters/gologger"
	"github.com/goliatone/go-stargazer/core"
	"github.com/goliatone/go-stargazer/inbound"
	"github.com/goliatone/go-stargazer/stars"
	cachedstore "github.com/goliatone/go-stargazer/store/cached"
	"github.com/goliatone/go-stargazer/store/memory"
	redisstore "github.com/goliatone/go-stargazer/store/redis"
	sqlstore "github.com/goliatone/go-stargazer/store/sql"
	"github.com/goliatone/go-stargazer/webhooks"
)

type Config = core.Config

type StarRecord = core.StarRecord

type Delivery = core.Delivery

type Response = core.Response

type RecordStore = core.RecordStore

func DefaultConfig() Config {
	return core.DefaultConfig()
}

type Option func(*Service)

func WithLogger(logger core.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(s *Service) {
		s.loggerProvider = provider
	}
}

func WithMetricsRecorder(metrics core.MetricsRecorder) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithMetricsHandler mounts handler at /metrics on the service router.
func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Service) {
		s.metricsHandler = handler
	}
}

// WithRecordStore bypasses the configured store driver.
func WithRecordStore(store core.RecordStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithClock(now core.Clock) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service owns the store and the webhook pipeline built from one Config.
type Service struct {
	config         Config
	logger         core.Logger
	loggerProvider core.LoggerProvider
	metrics        core.MetricsRecorder
	metricsHandler http.Handler
	now            core.Clock

	store     core.RecordStore
	closers   []func() error
	gateway   *stars.Gateway
	processor *webhooks.Processor
	handler   *inbound.Handler
}

func NewService(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	svc := &Service{
		config:  cfg,
		metrics: core.NopMetricsRecorder{},
		now:     core.SystemClock,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(svc)
	}
	svc.loggerProvider, svc.logger = gologger.Resolve(gologger.RootName, svc.loggerProvider, svc.logger)

	if svc.store == nil {
		store, closers, err := OpenRecordStore(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		svc.store = store
		svc.closers = closers
	}

	gateway, err := stars.NewGateway(svc.store)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.gateway = gateway

	processor := webhooks.NewProcessor(cfg.Webhook.Secret, stars.NewNormalizer(svc.now), gateway)
	processor.Logger = gologger.Component(svc.loggerProvider, "webhooks")
	processor.Metrics = svc.metrics
	svc.processor = processor

	handler := inbound.NewHandler(processor, gateway)
	handler.Logger = gologger.Component(svc.loggerProvider, "inbound")
	handler.WebhookPath = cfg.Webhook.Path
	if cfg.Webhook.MaxBodyBytes > 0 {
		handler.MaxBodyBytes = cfg.Webhook.MaxBodyBytes
	}
	handler.Metrics = svc.metricsHandler
	svc.handler = handler

	if !cfg.Webhook.SecretConfigured() {
		svc.logger.Warn("webhook secret not configured, signature verification disabled")
	}
	svc.logger.Info("stargazer service ready",
		"store_driver", cfg.Store.Driver,
		"webhook_path", handler.WebhookPath,
	)
	return svc, nil
}

// Setup resolves cfg through the default options stack and builds the service.
func Setup(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	resolved, err := core.ResolveConfig(ctx, nil, nil, cfg)
	if err != nil {
		return nil, err
	}
	return NewService(ctx, resolved, opts...)
}

func (s *Service) Config() Config {
	return s.config
}

func (s *Service) Store() core.RecordStore {
	return s.store
}

func (s *Service) Gateway() *stars.Gateway {
	return s.gateway
}

func (s *Service) Processor() *webhooks.Processor {
	return s.processor
}

func (s *Service) Handler() http.Handler {
	return s.handler.Router()
}

func (s *Service) Logger() core.Logger {
	return s.logger
}

// Process runs one delivery through the webhook pipeline.
func (s *Service) Process(ctx context.Context, delivery Delivery) (Response, error) {
	return s.processor.Process(ctx, delivery)
}

// Close releases the store connections opened by NewService. Stores passed in
// through WithRecordStore are left open.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// OpenRecordStore builds the record store for cfg.Driver, wrapped with a
// read-through cache when CacheTTLSeconds is positive.
func OpenRecordStore(ctx context.Context, cfg core.StoreConfig) (core.RecordStore, []func() error, error) {
	var (
		store   core.RecordStore
		closers []func() error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", core.StoreDriverMemory:
		store = memory.NewStore()
	case core.StoreDriverSQLite, core.StoreDriverPostgres:
		driver := sqlstore.DriverPostgres
		if strings.EqualFold(strings.TrimSpace(cfg.Driver), core.StoreDriverSQLite) {
			driver = sqlstore.DriverSQLite
		}
		sqlStore, closer, err := sqlstore.OpenStore(ctx, sqlstore.Config{
			Driver: driver,
			DSN:    cfg.DSN,
			Debug:  cfg.Debug,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("stargazer: open %s store: %w", cfg.Driver, err)
		}
		store = sqlStore
		closers = append(closers, closer)
	case core.StoreDriverRedis:
		redisStore, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("stargazer: open redis store: %w", err)
		}
		store = redisStore
		closers = append(closers, redisStore.Close)
	default:
		return nil, nil, fmt.Errorf("stargazer: unsupported store driver %q", cfg.Driver)
	}

	if cfg.CacheTTLSeconds > 0 {
		cached, err := cachedstore.NewWithTTL(store, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		if err != nil {
			for _, closer := range closers {
				_ = closer()
			}
			return nil, nil, err
		}
		store = cached
	}
	return store, closers, nil
}
