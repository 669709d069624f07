package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-stargazer/core"
)

type State string

const (
	StateReceived            State = "received"
	StateClassified          State = "classified"
	StateVerified            State = "verified"
	StateSkippedVerification State = "skipped_verification"
	StateNormalized          State = "normalized"
	StatePersisted           State = "persisted"
	StateResponded           State = "responded"
	StateIgnored             State = "ignored"
	StateRejected            State = "rejected"
	StateFailed              State = "failed"
)

const (
	MessageIgnored          = "Event ignored - only processing star events"
	MessageInvalidSignature = "Invalid webhook signature"
	MessageProcessed        = "Star webhook processed successfully"
	MessageFailed           = "Star webhook processing failed"
)

type Normalizer interface {
	Normalize(event core.StarEvent) core.StarRecord
}

type RecordWriter interface {
	Upsert(ctx context.Context, record core.StarRecord) error
}

// Processor runs one delivery through classification, verification,
// normalization and persistence. An empty Secret disables verification.
type Processor struct {
	Secret     string
	Normalizer Normalizer
	Writer     RecordWriter
	Logger     core.Logger
	Metrics    core.MetricsRecorder
}

func NewProcessor(secret string, normalizer Normalizer, writer RecordWriter) *Processor {
	return &Processor{
		Secret:     secret,
		Normalizer: normalizer,
		Writer:     writer,
		Metrics:    core.NopMetricsRecorder{},
	}
}

// Process never lets a fault escape as a panic. The returned error is only
// set for failed deliveries and carries the internal cause for diagnostics;
// the response body stays generic.
func (p *Processor) Process(ctx context.Context, delivery core.Delivery) (resp core.Response, err error) {
	startedAt := time.Now()
	state := StateReceived
	var record core.StarRecord

	defer func() {
		if recovered := recover(); recovered != nil {
			state = StateFailed
			resp = failedResponse()
			err = core.NewInternal(fmt.Sprintf("webhooks: panic while processing delivery: %v", recovered))
		}
		p.observe(ctx, startedAt, delivery, state, record, err)
	}()

	if p == nil || p.Normalizer == nil || p.Writer == nil {
		state = StateFailed
		return failedResponse(), core.NewInternal("webhooks: processor requires normalizer and writer")
	}

	classification := Classify(delivery.EventType)
	if !classification.InScope {
		state = StateIgnored
		return core.Response{
			StatusCode: http.StatusOK,
			Body: core.AckBody{
				Message:   MessageIgnored,
				Event:     classification.EventType,
				Processed: false,
			},
		}, nil
	}
	state = StateClassified

	if p.Secret != "" {
		if !VerifySignature(delivery.Body, delivery.Signature, p.Secret) {
			state = StateRejected
			return core.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       core.ErrorBody{Error: MessageInvalidSignature},
			}, nil
		}
		state = StateVerified
	} else {
		state = StateSkippedVerification
	}

	var event core.StarEvent
	if decodeErr := json.Unmarshal(delivery.Body, &event); decodeErr != nil {
		state = StateFailed
		return failedResponse(), goerrors.Wrap(decodeErr, goerrors.CategoryBadInput, "webhooks: decode star event").
			WithCode(http.StatusBadRequest).
			WithTextCode(core.ServiceErrorBadInput)
	}

	record = p.Normalizer.Normalize(event)
	state = StateNormalized

	if writeErr := p.Writer.Upsert(ctx, record); writeErr != nil {
		state = StateFailed
		return failedResponse(), writeErr
	}
	state = StatePersisted

	state = StateResponded
	return core.Response{
		StatusCode: http.StatusOK,
		Body: core.AckBody{
			Message:   MessageProcessed,
			Event:     core.EventTypeStar,
			Processed: true,
		},
	}, nil
}

func (p *Processor) observe(
	ctx context.Context,
	startedAt time.Time,
	delivery core.Delivery,
	state State,
	record core.StarRecord,
	err error,
) {
	if p == nil {
		return
	}
	fields := map[string]any{
		"event":      eventTag(delivery.EventType),
		"event_type": delivery.EventType,
		"delivery":   delivery.DeliveryID,
		"state":      string(state),
	}
	if delivery.Signature.Present() {
		fields["signature_algorithm"] = string(delivery.Signature.Algorithm)
	}
	if record.FullName != "" {
		fields["repository"] = record.FullName
		fields["stars"] = record.Stars
		fields["last_updated"] = record.LastUpdated
	}
	observer := core.NewObserver("stargazer", p.Logger, p.Metrics)
	observer.TagFields = []string{"event"}
	observer.Observe(ctx, startedAt, "webhook", outcome(state), err, fields)
}

// EventTagOther is the metric label shared by all out-of-scope event types.
// The raw type is only logged, under event_type.
const EventTagOther = "other"

func eventTag(eventType string) string {
	if Classify(eventType).InScope {
		return core.EventTypeStar
	}
	return EventTagOther
}

func outcome(state State) string {
	if state == StateResponded {
		return "processed"
	}
	return string(state)
}

func failedResponse() core.Response {
	return core.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       core.ErrorBody{Error: MessageFailed},
	}
}
