package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-stargazer/core"
	"github.com/goliatone/go-stargazer/stars"
)

type RecordWriter interface {
	Upsert(ctx context.Context, record core.StarRecord) error
}

type DeliveryProcessor interface {
	Process(ctx context.Context, delivery core.Delivery) (core.Response, error)
}

type UpsertStarRecordCommand struct {
	writer RecordWriter
	now    core.Clock
}

func NewUpsertStarRecordCommand(writer RecordWriter, now core.Clock) *UpsertStarRecordCommand {
	if now == nil {
		now = core.SystemClock
	}
	return &UpsertStarRecordCommand{writer: writer, now: now}
}

func (c *UpsertStarRecordCommand) Execute(ctx context.Context, msg UpsertStarRecordMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: star record writer is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	record := msg.Record
	if record.FullName == "" {
		record.FullName = record.Organization + "/" + record.Name
	}
	if record.LastUpdated == "" {
		now := c.now
		if now == nil {
			now = core.SystemClock
		}
		record.LastUpdated = stars.FormatTimestamp(now())
	}
	if err := c.writer.Upsert(ctx, record); err != nil {
		return err
	}
	storeResult(ctx, record)
	return nil
}

// ProcessDeliveryCommand runs a delivery through the webhook pipeline and
// stores the response in the result collector. Failed deliveries still
// store their response before the error is returned.
type ProcessDeliveryCommand struct {
	processor DeliveryProcessor
}

func NewProcessDeliveryCommand(processor DeliveryProcessor) *ProcessDeliveryCommand {
	return &ProcessDeliveryCommand{processor: processor}
}

func (c *ProcessDeliveryCommand) Execute(ctx context.Context, msg ProcessDeliveryMessage) error {
	if c == nil || c.processor == nil {
		return commandDependencyError("command: delivery processor is required")
	}
	resp, err := c.processor.Process(ctx, msg.Delivery)
	storeResult(ctx, resp)
	return err
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
