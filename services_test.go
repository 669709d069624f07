package stargazer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	promadapter "github.com/goliatone/go-stargazer/adapters/prometheus"
	"github.com/goliatone/go-stargazer/core"
	cachedstore "github.com/goliatone/go-stargazer/store/cached"
	"github.com/goliatone/go-stargazer/store/memory"
	"github.com/goliatone/go-stargazer/webhooks"
	"github.com/prometheus/client_golang/prometheus"
)

const testStarBody = `{"action":"created","starred_at":"2024-01-01T00:00:00Z","repository":{"name":"r","full_name":"o/r","stargazers_count":5,"owner":{"login":"o"}},"sender":{"login":"u"}}`

type countingMetrics struct {
	counters map[string]int64
}

func (m *countingMetrics) IncCounter(_ context.Context, name string, value int64, _ map[string]string) {
	if m.counters == nil {
		m.counters = map[string]int64{}
	}
	m.counters[name] += value
}

func (m *countingMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func TestNewService_ProcessesSignedStarDelivery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhook.Secret = "topsecret"
	metrics := &countingMetrics{}

	svc, err := NewService(context.Background(), cfg, WithMetricsRecorder(metrics))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	body := []byte(testStarBody)
	req := httptest.NewRequest(http.MethodPost, cfg.Webhook.Path, strings.NewReader(testStarBody))
	req.Header.Set(webhooks.HeaderEvent, "star")
	req.Header.Set(webhooks.HeaderSignatureSHA256, webhooks.SignPayload(body, "topsecret", core.SignatureAlgorithmSHA256))
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ack core.AckBody
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if !ack.Processed {
		t.Fatalf("expected processed ack, got %+v", ack)
	}

	record, err := svc.Store().Get(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("get stored record: %v", err)
	}
	if record.Stars != 5 || record.LastUpdated != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected record %+v", record)
	}
	if metrics.counters["stargazer.webhook.total"] != 1 {
		t.Fatalf("expected webhook counter, got %+v", metrics.counters)
	}
}

func TestNewService_UnknownEventsShareOneMetricSeries(t *testing.T) {
	registry := prometheus.NewRegistry()
	svc, err := NewService(context.Background(), DefaultConfig(),
		WithMetricsRecorder(promadapter.NewRecorder(registry)),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	router := svc.Handler()
	for index := 0; index < 100; index++ {
		req := httptest.NewRequest(http.MethodPost, DefaultConfig().Webhook.Path, strings.NewReader(`{}`))
		req.Header.Set(webhooks.HeaderEvent, fmt.Sprintf("unknown-%d", index))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for ignored event, got %d", rec.Code)
		}
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	seen := 0
	for _, family := range families {
		switch family.GetName() {
		case "stargazer_webhook_total", "stargazer_webhook_duration_ms":
			seen++
			if got := len(family.GetMetric()); got != 1 {
				t.Fatalf("expected one series for %s, got %d", family.GetName(), got)
			}
		}
	}
	if seen != 2 {
		t.Fatalf("expected counter and histogram families, got %d", seen)
	}
}

func TestNewService_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = "cassandra"
	if _, err := NewService(context.Background(), cfg); err == nil {
		t.Fatalf("expected unsupported driver to fail")
	}
}

func TestNewService_UsesInjectedStoreAndClock(t *testing.T) {
	store := memory.NewStore()
	fixed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	svc, err := NewService(context.Background(), DefaultConfig(),
		WithRecordStore(store),
		WithClock(func() time.Time { return fixed }),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	body := strings.Replace(testStarBody, `"starred_at":"2024-01-01T00:00:00Z",`, "", 1)
	resp, err := svc.Process(context.Background(), Delivery{EventType: "star", Body: []byte(body)})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	record, err := store.Get(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.LastUpdated != "2026-05-06T07:08:09.000Z" {
		t.Fatalf("expected clock timestamp, got %q", record.LastUpdated)
	}
}

func TestSetup_LayersRuntimeOverDefaults(t *testing.T) {
	runtime := Config{Webhook: core.WebhookConfig{Path: "/hooks/star"}}
	svc, err := Setup(context.Background(), runtime)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer svc.Close()

	if svc.Config().Webhook.Path != "/hooks/star" {
		t.Fatalf("expected runtime path, got %q", svc.Config().Webhook.Path)
	}
	if svc.Config().HTTP.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", svc.Config().HTTP.Addr)
	}
}

func TestOpenRecordStore_Drivers(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		store, closers, err := OpenRecordStore(ctx, core.StoreConfig{
			Driver: core.StoreDriverSQLite,
			DSN:    fmt.Sprintf("file:stargazer-facade-%d?mode=memory&cache=shared", time.Now().UnixNano()),
		})
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		defer closeAll(closers)
		assertRoundTrip(t, store)
	})

	t.Run("redis cached", func(t *testing.T) {
		server := miniredis.RunT(t)
		store, closers, err := OpenRecordStore(ctx, core.StoreConfig{
			Driver:          core.StoreDriverRedis,
			RedisURL:        "redis://" + server.Addr(),
			CacheTTLSeconds: 30,
		})
		if err != nil {
			t.Fatalf("open redis store: %v", err)
		}
		defer closeAll(closers)
		if _, ok := store.(*cachedstore.Store); !ok {
			t.Fatalf("expected cached store, got %T", store)
		}
		assertRoundTrip(t, store)
		if server.HGet("stargazer:stars:o", "r") == "" {
			t.Fatalf("expected record in redis hash")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, _, err := OpenRecordStore(ctx, core.StoreConfig{Driver: "mongo"}); err == nil {
			t.Fatalf("expected unsupported driver error")
		}
	})
}

func assertRoundTrip(t *testing.T, store core.RecordStore) {
	t.Helper()
	record := core.StarRecord{FullName: "o/r", Name: "r", Organization: "o", LastUpdated: "2024-01-01T00:00:00Z", Stars: 7}
	if err := store.Set(context.Background(), "o", "r", record); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != record {
		t.Fatalf("expected %+v, got %+v", record, got)
	}
}

func closeAll(closers []func() error) {
	for _, closer := range closers {
		_ = closer()
	}
}
