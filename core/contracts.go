package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type Clock func() time.Time

// RecordStore is the partitioned key/value store star records live in.
// Set must overwrite the full value for the key atomically.
type RecordStore interface {
	Set(ctx context.Context, partitionKey string, itemKey string, record StarRecord) error
	Get(ctx context.Context, partitionKey string, itemKey string) (StarRecord, error)
}

// RecordLister is implemented by stores that can enumerate one partition.
type RecordLister interface {
	List(ctx context.Context, partitionKey string) ([]StarRecord, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

func SystemClock() time.Time {
	return time.Now().UTC()
}
