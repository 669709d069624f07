package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	stargazer "github.com/goliatone/go-stargazer"
	"github.com/goliatone/go-stargazer/adapters/gologger"
	promadapter "github.com/goliatone/go-stargazer/adapters/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the webhook HTTP server",
		Action: runServe,
		Description: `
Environment variables:
	GITHUB_WEBHOOK_SECRET                    (optional, empty disables verification)
	STARGAZER_CONFIG                         (optional YAML config file)
	STARGAZER_WEBHOOK_PATH                   (default: /webhooks/github/star)
	STARGAZER_WEBHOOK_MAX_BODY_BYTES         (default: 1048576)
	STARGAZER_HTTP_ADDR                      (default: :8080)
	STARGAZER_HTTP_READ_TIMEOUT_SECONDS      (default: 10)
	STARGAZER_HTTP_WRITE_TIMEOUT_SECONDS     (default: 10)
	STARGAZER_HTTP_SHUTDOWN_TIMEOUT_SECONDS  (default: 30)
	STARGAZER_STORE_DRIVER                   (memory, sqlite, postgres or redis; default: memory)
	STARGAZER_STORE_DSN                      (sqlite and postgres)
	STARGAZER_STORE_REDIS_URL                (redis)
	STARGAZER_STORE_CACHE_TTL_SECONDS        (default: 0, no cache)
`,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Root()
	cfg, err := loadConfig(ctx, root.String("config"), nil)
	if err != nil {
		return err
	}
	provider := gologger.New(os.Stderr, root.String("log-format"), root.String("log-level"))
	logger := gologger.Component(provider, "server")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := stargazer.NewService(ctx, cfg,
		stargazer.WithLoggerProvider(provider),
		stargazer.WithMetricsRecorder(promadapter.NewRecorder(registry)),
		stargazer.WithMetricsHandler(promadapter.Handler(registry)),
	)
	if err != nil {
		return fmt.Errorf("setup service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("close service", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: seconds(cfg.HTTP.ReadTimeoutSeconds),
		ReadTimeout:       seconds(cfg.HTTP.ReadTimeoutSeconds),
		WriteTimeout:      seconds(cfg.HTTP.WriteTimeoutSeconds),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", server.Addr, "webhook_path", cfg.Webhook.Path)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.HTTP.ShutdownTimeoutSeconds))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}
