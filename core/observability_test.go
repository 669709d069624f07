package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: CloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: CloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFieldMap(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFieldMap(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFieldMap(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

func cloneFieldMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	output := make(map[string]any, len(input))
	for key, value := range input {
		output[key] = value
	}
	return output
}

func TestObserver_SuccessEmitsCounterHistogramAndLog(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	observer := NewObserver("stargazer", logger, metrics)
	observer.TagFields = []string{"event"}

	observer.Observe(context.Background(), time.Now().UTC(), "webhook", "processed", nil, map[string]any{
		"event":    "star",
		"delivery": "d-1",
	})

	if !hasCounter(metrics.counters, "stargazer.webhook.total", "processed") {
		t.Fatalf("expected stargazer.webhook.total processed counter, got %#v", metrics.counters)
	}
	if !hasHistogram(metrics.histograms, "stargazer.webhook.duration_ms", "processed") {
		t.Fatalf("expected stargazer.webhook.duration_ms histogram")
	}
	if metrics.counters[0].tags["event"] != "star" {
		t.Fatalf("expected event tag, got %#v", metrics.counters[0].tags)
	}
	if _, ok := metrics.counters[0].tags["delivery"]; ok {
		t.Fatalf("expected delivery to stay out of metric tags")
	}
	if !hasLog(logger.snapshot(), "info", "webhook processed", "webhook") {
		t.Fatalf("expected webhook processed log, got %#v", logger.snapshot())
	}
}

func TestObserver_DerivesStatusFromError(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	observer := NewObserver("stargazer", logger, metrics)

	observer.Observe(context.Background(), time.Now().UTC(), "Upsert Record", "", errors.New("boom"), nil)

	if !hasCounter(metrics.counters, "stargazer.upsert_record.total", StatusFailure) {
		t.Fatalf("expected failure counter, got %#v", metrics.counters)
	}
	if !hasLog(logger.snapshot(), "error", "upsert_record failed", "upsert_record") {
		t.Fatalf("expected failure log, got %#v", logger.snapshot())
	}
}

func TestObserver_EnrichesStructuredErrorFields(t *testing.T) {
	logger := newCaptureLogger()
	observer := NewObserver("stargazer", logger, nil)

	richErr := NewStorageFailure(errors.New("connection reset"), "write failed", map[string]any{
		"organization": "o",
	})
	observer.Observe(context.Background(), time.Now().UTC().Add(-50*time.Millisecond), "webhook", "failed", richErr, nil)

	records := logger.snapshot()
	if len(records) == 0 {
		t.Fatalf("expected logs to be emitted")
	}
	last := records[len(records)-1]
	if last.level != "error" {
		t.Fatalf("expected error level, got %q", last.level)
	}
	if last.fields["error_text_code"] != ServiceErrorStorageFailure {
		t.Fatalf("expected error_text_code %q, got %#v", ServiceErrorStorageFailure, last.fields["error_text_code"])
	}
	if last.fields["error_category"] != fmt.Sprint(goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %#v", last.fields["error_category"])
	}
	metadata, ok := last.fields["error_metadata"].(map[string]any)
	if !ok || metadata["organization"] != "o" {
		t.Fatalf("expected error metadata propagation, got %#v", last.fields["error_metadata"])
	}
}

func TestObserver_NilLoggerIsSafe(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	observer := NewObserver("", nil, metrics)
	observer.Observe(context.Background(), time.Now().UTC(), "", "", nil, nil)
	if !hasCounter(metrics.counters, "unknown.total", StatusSuccess) {
		t.Fatalf("expected unknown.total counter, got %#v", metrics.counters)
	}
}

type argsLogger struct {
	Logger
	args   []any
	fields map[string]any
}

func (l *argsLogger) Info(_ string, args ...any) { l.args = append(l.args, args...) }

func (l *argsLogger) WithContext(context.Context) Logger { return l }

type argsFieldsLogger struct {
	*argsLogger
}

func (l argsFieldsLogger) WithContext(context.Context) Logger { return l }

func (l argsFieldsLogger) WithFields(fields map[string]any) Logger {
	l.argsLogger.fields = cloneFieldMap(fields)
	return l
}

func TestObserver_PassesFieldsThroughOneChannel(t *testing.T) {
	fields := map[string]any{"delivery": "d-1", "event": "star"}

	plain := &argsLogger{Logger: glog.Nop()}
	NewObserver("stargazer", plain, nil).Observe(context.Background(), time.Now(), "webhook", "processed", nil, fields)
	if plain.fields != nil {
		t.Fatalf("expected no structured fields on plain logger")
	}
	if len(plain.args) != 10 {
		t.Fatalf("expected five key/value pairs as args, got %#v", plain.args)
	}

	structured := argsFieldsLogger{argsLogger: &argsLogger{Logger: glog.Nop()}}
	NewObserver("stargazer", structured, nil).Observe(context.Background(), time.Now(), "webhook", "processed", nil, fields)
	if len(structured.args) != 0 {
		t.Fatalf("expected fields logger to receive no args, got %#v", structured.args)
	}
	if structured.fields["delivery"] != "d-1" || structured.fields["status"] != "processed" {
		t.Fatalf("expected structured fields, got %#v", structured.fields)
	}
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string, operation string) bool {
	for _, item := range items {
		if item.level != level {
			continue
		}
		if item.msg != message {
			continue
		}
		if item.fields["operation"] == operation {
			return true
		}
	}
	return false
}
