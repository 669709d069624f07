// Package memory is an in-process record store. Records do not survive a
// restart.
package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-stargazer/core"
)

type Store struct {
	mu         sync.RWMutex
	partitions map[string]map[string]core.StarRecord
}

func NewStore() *Store {
	return &Store{partitions: map[string]map[string]core.StarRecord{}}
}

func (s *Store) Set(ctx context.Context, partitionKey string, itemKey string, record core.StarRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.partitions[partitionKey]
	if !ok {
		items = map[string]core.StarRecord{}
		s.partitions[partitionKey] = items
	}
	items[itemKey] = record
	return nil
}

func (s *Store) Get(ctx context.Context, partitionKey string, itemKey string) (core.StarRecord, error) {
	if err := ctx.Err(); err != nil {
		return core.StarRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.partitions[partitionKey][itemKey]
	if !ok {
		return core.StarRecord{}, core.ErrRecordNotFound
	}
	return record, nil
}

// List returns the records stored under one partition.
func (s *Store) List(ctx context.Context, partitionKey string) ([]core.StarRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.partitions[partitionKey]
	out := make([]core.StarRecord, 0, len(items))
	for _, record := range items {
		out = append(out, record)
	}
	return out, nil
}

var _ core.RecordStore = (*Store)(nil)
