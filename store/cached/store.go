// Package cachedstore adds a read-through cache in front of a record store.
package cachedstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-stargazer/core"
)

const cacheKeyPrefix = "go-stargazer::star_record::v1"

type Store struct {
	base  core.RecordStore
	cache repositorycache.CacheService
}

func New(base core.RecordStore, cacheService repositorycache.CacheService) (*Store, error) {
	if base == nil {
		return nil, fmt.Errorf("cachedstore: base record store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("cachedstore: cache service is required")
	}
	return &Store{base: base, cache: cacheService}, nil
}

// NewWithTTL builds the default cache service with the given entry TTL.
func NewWithTTL(base core.RecordStore, ttl time.Duration) (*Store, error) {
	config := repositorycache.DefaultConfig()
	if ttl > 0 {
		config.TTL = ttl
	}
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		return nil, fmt.Errorf("cachedstore: new cache service: %w", err)
	}
	return New(base, service)
}

// CacheKey is go-stargazer::star_record::v1::<organization>::<name> with each
// segment URL-path escaped.
func CacheKey(partitionKey string, itemKey string) string {
	return strings.Join([]string{
		cacheKeyPrefix,
		url.PathEscape(partitionKey),
		url.PathEscape(itemKey),
	}, "::")
}

func (s *Store) Get(ctx context.Context, partitionKey string, itemKey string) (core.StarRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.StarRecord{}, fmt.Errorf("cachedstore: store is not configured")
	}
	return repositorycache.GetOrFetch(ctx, s.cache, CacheKey(partitionKey, itemKey), func(ctx context.Context) (core.StarRecord, error) {
		return s.base.Get(ctx, partitionKey, itemKey)
	})
}

// Set writes through to the base store and drops the cached entry.
func (s *Store) Set(ctx context.Context, partitionKey string, itemKey string, record core.StarRecord) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("cachedstore: store is not configured")
	}
	if err := s.base.Set(ctx, partitionKey, itemKey, record); err != nil {
		return err
	}
	return s.cache.Delete(ctx, CacheKey(partitionKey, itemKey))
}

// List is not cached.
func (s *Store) List(ctx context.Context, partitionKey string) ([]core.StarRecord, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("cachedstore: store is not configured")
	}
	lister, ok := s.base.(core.RecordLister)
	if !ok {
		return nil, fmt.Errorf("cachedstore: base store does not support listing")
	}
	return lister.List(ctx, partitionKey)
}

var (
	_ core.RecordStore  = (*Store)(nil)
	_ core.RecordLister = (*Store)(nil)
)
