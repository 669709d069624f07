package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-stargazer/core"
	"github.com/goliatone/go-stargazer/webhooks"
)

const (
	DefaultWebhookPath  = "/webhooks/github/star"
	DefaultMaxBodyBytes = int64(1 << 20)
)

type DeliveryProcessor interface {
	Process(ctx context.Context, delivery core.Delivery) (core.Response, error)
}

type RecordReader interface {
	Get(ctx context.Context, organization string, name string) (core.StarRecord, error)
}

type Handler struct {
	Processor    DeliveryProcessor
	Records      RecordReader
	Logger       core.Logger
	WebhookPath  string
	MaxBodyBytes int64
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewHandler(processor DeliveryProcessor, records RecordReader) *Handler {
	return &Handler{
		Processor:    processor,
		Records:      records,
		Logger:       glog.Nop(),
		WebhookPath:  DefaultWebhookPath,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	path := strings.TrimSpace(h.WebhookPath)
	if path == "" {
		path = DefaultWebhookPath
	}
	r.Post(path, h.Webhook)
	r.Get("/stars/{organization}/{name}", h.GetStar)
	r.Get("/health", h.Health)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}
	return r
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, inboundTooLarge(err, limit))
			return
		}
		h.writeError(w, r, inboundBadInput("inbound: failed to read request body", nil))
		return
	}

	delivery := webhooks.DeliveryFromHeaders(flattenHeaders(r.Header), body)
	if webhooks.Classify(delivery.EventType).InScope {
		if err := ValidateStarPayload(body); err != nil {
			h.logger(r.Context()).Warn("Rejected malformed star payload",
				"delivery", delivery.DeliveryID,
				"error", err.Error(),
			)
			h.writeError(w, r, err)
			return
		}
	}

	if h.Processor == nil {
		h.writeError(w, r, core.NewInternal("inbound: webhook processor is not configured"))
		return
	}
	// The processor logs its own failures.
	resp, _ := h.Processor.Process(r.Context(), delivery)
	writeJSON(w, resp.StatusCode, resp.Body)
}

func (h *Handler) GetStar(w http.ResponseWriter, r *http.Request) {
	if h.Records == nil {
		h.writeError(w, r, core.NewInternal("inbound: record reader is not configured"))
		return
	}
	record, err := h.Records.Get(r.Context(), chi.URLParam(r, "organization"), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := core.MapError(err)
	status := mapped.Code
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	message := mapped.Message
	if status >= http.StatusInternalServerError {
		h.logger(r.Context()).Error("request failed",
			"path", r.URL.Path,
			"text_code", mapped.TextCode,
			"error", err.Error(),
		)
		message = http.StatusText(status)
	}
	writeJSON(w, status, core.ErrorBody{Error: message})
}

func (h *Handler) logger(ctx context.Context) core.Logger {
	if h.Logger == nil {
		return glog.Nop()
	}
	return h.Logger.WithContext(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func flattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
