// Package prometheus adapts core.MetricsRecorder onto the prometheus client
// so webhook outcomes and durations can be scraped from /metrics.
package prometheus
