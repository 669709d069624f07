package webhooks

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/goliatone/go-stargazer/core"
)

// SignatureVerifier checks presented signatures against a shared secret.
type SignatureVerifier struct {
	Secret string
}

func (v SignatureVerifier) Verify(payload []byte, sig core.Signature) bool {
	return VerifySignature(payload, sig, v.Secret)
}

func VerifySignature(payload []byte, sig core.Signature, secret string) bool {
	if !sig.Present() {
		return VerifyDigest(payload, nil, secret, sig.Algorithm)
	}
	digest := sig.Digest
	return VerifyDigest(payload, &digest, secret, sig.Algorithm)
}

// VerifyDigest reports whether presented is the HMAC of payload under secret.
// A nil digest, an unknown algorithm, or a digest that is not valid hex never
// verifies. The presented digest may carry an "<algorithm>=" prefix.
func VerifyDigest(payload []byte, presented *string, secret string, algorithm core.SignatureAlgorithm) bool {
	if presented == nil {
		return false
	}
	newHash := hashFor(algorithm)
	if newHash == nil {
		return false
	}
	provided, err := hex.DecodeString(stripAlgorithmPrefix(strings.TrimSpace(*presented)))
	if err != nil || len(provided) == 0 {
		return false
	}

	mac := hmac.New(newHash, []byte(secret))
	_, _ = mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}

// SignPayload returns the header value a sender would present for payload.
func SignPayload(payload []byte, secret string, algorithm core.SignatureAlgorithm) string {
	newHash := hashFor(algorithm)
	if newHash == nil {
		return ""
	}
	mac := hmac.New(newHash, []byte(secret))
	_, _ = mac.Write(payload)
	return string(algorithm) + "=" + hex.EncodeToString(mac.Sum(nil))
}

func hashFor(algorithm core.SignatureAlgorithm) func() hash.Hash {
	switch algorithm {
	case core.SignatureAlgorithmSHA256:
		return sha256.New
	case core.SignatureAlgorithmSHA1:
		return sha1.New
	default:
		return nil
	}
}

func stripAlgorithmPrefix(digest string) string {
	for _, algorithm := range []core.SignatureAlgorithm{core.SignatureAlgorithmSHA256, core.SignatureAlgorithmSHA1} {
		prefix := string(algorithm) + "="
		if len(digest) >= len(prefix) && strings.EqualFold(digest[:len(prefix)], prefix) {
			return digest[len(prefix):]
		}
	}
	return digest
}
