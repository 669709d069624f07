package webhooks

import (
	"strings"

	"github.com/goliatone/go-stargazer/core"
)

const (
	HeaderEvent           = "X-GitHub-Event"
	HeaderDelivery        = "X-GitHub-Delivery"
	HeaderSignatureSHA256 = "X-Hub-Signature-256"
	HeaderSignatureSHA1   = "X-Hub-Signature"
)

// SignatureFromHeaders picks the presented signature. When both headers are
// sent the SHA-256 one wins and the SHA-1 one is ignored.
func SignatureFromHeaders(headers map[string]string) core.Signature {
	if value := headerValue(headers, HeaderSignatureSHA256); value != "" {
		return core.SignatureSHA256(value)
	}
	if value := headerValue(headers, HeaderSignatureSHA1); value != "" {
		return core.SignatureSHA1(value)
	}
	return core.Signature{}
}

// DeliveryFromHeaders builds a Delivery from raw headers and body.
func DeliveryFromHeaders(headers map[string]string, body []byte) core.Delivery {
	return core.Delivery{
		EventType:  headerValue(headers, HeaderEvent),
		DeliveryID: headerValue(headers, HeaderDelivery),
		Signature:  SignatureFromHeaders(headers),
		Body:       body,
	}
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
