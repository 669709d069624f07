package core

import (
	"errors"
	"strings"
)

var ErrRecordNotFound = errors.New("core: star record not found")

const (
	EventTypeStar = "star"

	StarActionCreated = "created"
	StarActionDeleted = "deleted"
)

type SignatureAlgorithm string

const (
	SignatureAlgorithmSHA256 SignatureAlgorithm = "sha256"
	SignatureAlgorithmSHA1   SignatureAlgorithm = "sha1"
)

// Signature is the digest a sender presented for a delivery. The zero value
// is an absent signature.
type Signature struct {
	Algorithm SignatureAlgorithm
	Digest    string
}

func SignatureSHA256(digest string) Signature {
	return Signature{Algorithm: SignatureAlgorithmSHA256, Digest: digest}
}

func SignatureSHA1(digest string) Signature {
	return Signature{Algorithm: SignatureAlgorithmSHA1, Digest: digest}
}

func (s Signature) Present() bool {
	return s.Algorithm != ""
}

// Delivery is one inbound webhook call. It is owned by the processor for the
// duration of a single invocation.
type Delivery struct {
	EventType  string
	DeliveryID string
	Signature  Signature
	Body       []byte
}

type StarOwner struct {
	Login string `json:"login"`
}

type StarRepository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	StargazersCount int       `json:"stargazers_count"`
	Owner           StarOwner `json:"owner"`
}

type StarSender struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type StarEvent struct {
	Action     string         `json:"action"`
	StarredAt  string         `json:"starred_at,omitempty"`
	Repository StarRepository `json:"repository"`
	Sender     StarSender     `json:"sender"`
}

// StarRecord is the normalized star state for one repository, addressed by
// (Organization, Name). Every write replaces the previous record in full.
type StarRecord struct {
	FullName     string `json:"fullName"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	LastUpdated  string `json:"lastUpdated"`
	Stars        int    `json:"stars"`
}

func (r StarRecord) Key() RecordKey {
	return RecordKey{Organization: r.Organization, Name: r.Name}
}

type RecordKey struct {
	Organization string
	Name         string
}

func (k RecordKey) Validate() error {
	if strings.TrimSpace(k.Organization) == "" {
		return errors.New("core: organization is required")
	}
	if strings.TrimSpace(k.Name) == "" {
		return errors.New("core: repository name is required")
	}
	return nil
}

type AckBody struct {
	Message   string `json:"message"`
	Event     string `json:"event"`
	Processed bool   `json:"processed"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

// Response is the HTTP-style outcome of processing a delivery.
type Response struct {
	StatusCode int
	Body       any
}
