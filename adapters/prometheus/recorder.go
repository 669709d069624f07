package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-stargazer/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements core.MetricsRecorder on top of prometheus vectors.
// Vectors are created on first use and their label set is fixed by the
// tags of that first call. Later calls fill missing labels with "" and drop
// labels the vector does not know about.
type Recorder struct {
	registerer prom.Registerer
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*counterEntry
	histograms map[string]*histogramEntry
}

type counterEntry struct {
	vec    *prom.CounterVec
	labels []string
}

type histogramEntry struct {
	vec    *prom.HistogramVec
	labels []string
}

// DefaultDurationBuckets are millisecond buckets for pipeline durations.
var DefaultDurationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

func NewRecorder(registerer prom.Registerer) *Recorder {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}
	return &Recorder{
		registerer: registerer,
		buckets:    DefaultDurationBuckets,
		counters:   map[string]*counterEntry{},
		histograms: map[string]*histogramEntry{},
	}
}

// WithBuckets overrides the histogram buckets used by vectors created after
// the call.
func (r *Recorder) WithBuckets(buckets []float64) *Recorder {
	if r != nil && len(buckets) > 0 {
		r.buckets = append([]float64(nil), buckets...)
	}
	return r
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	entry, err := r.counter(name, tags)
	if err != nil {
		return
	}
	entry.vec.With(labelValues(entry.labels, tags)).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	entry, err := r.histogram(name, tags)
	if err != nil {
		return
	}
	entry.vec.With(labelValues(entry.labels, tags)).Observe(value)
}

func (r *Recorder) counter(name string, tags map[string]string) (*counterEntry, error) {
	metricName := SanitizeName(name)
	if metricName == "" {
		return nil, fmt.Errorf("prometheus: metric name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.counters[metricName]; ok {
		return entry, nil
	}

	labels := labelNames(tags)
	vec := prom.NewCounterVec(prom.CounterOpts{
		Name: metricName,
		Help: "Counter recorded as " + name,
	}, labels)
	if err := r.registerer.Register(vec); err != nil {
		var already prom.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prom.CounterVec)
		if !ok {
			return nil, err
		}
		vec = existing
	}
	entry := &counterEntry{vec: vec, labels: labels}
	r.counters[metricName] = entry
	return entry, nil
}

func (r *Recorder) histogram(name string, tags map[string]string) (*histogramEntry, error) {
	metricName := SanitizeName(name)
	if metricName == "" {
		return nil, fmt.Errorf("prometheus: metric name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.histograms[metricName]; ok {
		return entry, nil
	}

	labels := labelNames(tags)
	vec := prom.NewHistogramVec(prom.HistogramOpts{
		Name:    metricName,
		Help:    "Histogram recorded as " + name,
		Buckets: r.buckets,
	}, labels)
	if err := r.registerer.Register(vec); err != nil {
		var already prom.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prom.HistogramVec)
		if !ok {
			return nil, err
		}
		vec = existing
	}
	entry := &histogramEntry{vec: vec, labels: labels}
	r.histograms[metricName] = entry
	return entry, nil
}

// SanitizeName maps a dotted metric name onto the prometheus charset.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for key := range tags {
		name := SanitizeName(key)
		if name == "" || strings.HasPrefix(name, "__") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func labelValues(labels []string, tags map[string]string) prom.Labels {
	sanitized := make(map[string]string, len(tags))
	for key, value := range tags {
		sanitized[SanitizeName(key)] = value
	}
	values := make(prom.Labels, len(labels))
	for _, label := range labels {
		values[label] = sanitized[label]
	}
	return values
}

// Handler exposes the gatherer in the prometheus text format.
func Handler(gatherer prom.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ core.MetricsRecorder = (*Recorder)(nil)
