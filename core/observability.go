package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Observer emits one structured log line plus a counter and a duration
// histogram per observed operation. Metric names are "<prefix>.<operation>.total"
// and "<prefix>.<operation>.duration_ms".
type Observer struct {
	Prefix  string
	Logger  Logger
	Metrics MetricsRecorder
	// TagFields lists field keys copied into metric tags when present.
	TagFields []string
}

func NewObserver(prefix string, logger Logger, metrics MetricsRecorder) Observer {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return Observer{Prefix: prefix, Logger: logger, Metrics: metrics}
}

// Observe records the operation. An empty status is derived from err.
func (o Observer) Observe(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	status string,
	err error,
	fields map[string]any,
) {
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = StatusSuccess
		if err != nil {
			status = StatusFailure
		}
	}
	duration := time.Since(startedAt)

	contextFields := cloneFields(fields)
	contextFields["operation"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = duration.Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
		enrichErrorFields(contextFields, err)
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	for _, key := range o.TagFields {
		if value := strings.TrimSpace(fmt.Sprint(contextFields[key])); value != "" && value != "<nil>" {
			tags[key] = value
		}
	}

	name := operation
	if prefix := strings.TrimSpace(o.Prefix); prefix != "" {
		name = prefix + "." + operation
	}
	if o.Metrics != nil {
		o.Metrics.IncCounter(ctx, name+".total", 1, CloneTags(tags))
		o.Metrics.ObserveHistogram(ctx, name+".duration_ms", float64(duration.Milliseconds()), CloneTags(tags))
	}

	switch {
	case err != nil:
		o.log(ctx, "error", operation+" failed", contextFields)
	case status == StatusSuccess:
		o.log(ctx, "info", operation+" succeeded", contextFields)
	default:
		o.log(ctx, "info", operation+" "+status, contextFields)
	}
}

func (o Observer) log(ctx context.Context, level string, message string, fields map[string]any) {
	if o.Logger == nil {
		return
	}
	logger := o.Logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	var args []any
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	} else {
		args = flattenFields(fields)
	}
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func enrichErrorFields(fields map[string]any, err error) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich == nil {
		return
	}
	fields["error_category"] = fmt.Sprint(rich.Category)
	if rich.TextCode != "" {
		fields["error_text_code"] = rich.TextCode
	}
	if rich.Code != 0 {
		fields["error_code"] = rich.Code
	}
	if len(rich.Metadata) > 0 {
		fields["error_metadata"] = cloneFields(rich.Metadata)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
