// Package redisstore keeps star records in one redis hash per organization.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-stargazer/core"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "stargazer:stars:"

type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client, keyPrefix: DefaultKeyPrefix}
}

// Open parses redisURL, pings the server and returns a store that owns the
// client.
func Open(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: connect: %w", err)
	}
	return New(client), nil
}

func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) partitionKey(organization string) string {
	return s.keyPrefix + organization
}

// Set replaces the hash field with the JSON-encoded record. HSET is atomic
// per field.
func (s *Store) Set(ctx context.Context, partitionKey string, itemKey string, record core.StarRecord) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redisstore: store is not configured")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redisstore: marshal record: %w", err)
	}
	if err := s.client.HSet(ctx, s.partitionKey(partitionKey), itemKey, data).Err(); err != nil {
		return fmt.Errorf("redisstore: hset %s/%s: %w", partitionKey, itemKey, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, partitionKey string, itemKey string) (core.StarRecord, error) {
	if s == nil || s.client == nil {
		return core.StarRecord{}, fmt.Errorf("redisstore: store is not configured")
	}
	data, err := s.client.HGet(ctx, s.partitionKey(partitionKey), itemKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.StarRecord{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.StarRecord{}, fmt.Errorf("redisstore: hget %s/%s: %w", partitionKey, itemKey, err)
	}
	var record core.StarRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return core.StarRecord{}, fmt.Errorf("redisstore: unmarshal record: %w", err)
	}
	return record, nil
}

func (s *Store) List(ctx context.Context, partitionKey string) ([]core.StarRecord, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("redisstore: store is not configured")
	}
	fields, err := s.client.HGetAll(ctx, s.partitionKey(partitionKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: hgetall %s: %w", partitionKey, err)
	}
	out := make([]core.StarRecord, 0, len(fields))
	for name, raw := range fields {
		var record core.StarRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("redisstore: unmarshal record %s: %w", name, err)
		}
		out = append(out, record)
	}
	return out, nil
}

var (
	_ core.RecordStore  = (*Store)(nil)
	_ core.RecordLister = (*Store)(nil)
)
