package cachedstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-stargazer/core"
	"github.com/goliatone/go-stargazer/store/memory"
)

type countingStore struct {
	*memory.Store
	mu       sync.Mutex
	getCalls int
	setErr   error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore()}
}

func (s *countingStore) Get(ctx context.Context, partitionKey string, itemKey string) (core.StarRecord, error) {
	s.mu.Lock()
	s.getCalls++
	s.mu.Unlock()
	return s.Store.Get(ctx, partitionKey, itemKey)
}

func (s *countingStore) Set(ctx context.Context, partitionKey string, itemKey string, record core.StarRecord) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(ctx, partitionKey, itemKey, record)
}

func (s *countingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

func newTestStore(t *testing.T, base core.RecordStore) *Store {
	t.Helper()
	store, err := NewWithTTL(base, time.Minute)
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}
	return store
}

func TestStore_Get_MissFetchThenHit(t *testing.T) {
	base := newCountingStore()
	ctx := context.Background()
	_ = base.Store.Set(ctx, "o", "r", core.StarRecord{Name: "r", Organization: "o", Stars: 5})
	store := newTestStore(t, base)

	if _, err := store.Get(ctx, "o", "r"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if base.calls() != 1 {
		t.Fatalf("expected first get to fetch base store once, got %d", base.calls())
	}
	record, err := store.Get(ctx, "o", "r")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if base.calls() != 1 {
		t.Fatalf("expected second get to be a cache hit, base get calls=%d", base.calls())
	}
	if record.Stars != 5 {
		t.Fatalf("unexpected record %#v", record)
	}
}

func TestStore_Set_InvalidatesCachedKey(t *testing.T) {
	base := newCountingStore()
	ctx := context.Background()
	store := newTestStore(t, base)

	if err := store.Set(ctx, "o", "r", core.StarRecord{Name: "r", Organization: "o", Stars: 5}); err != nil {
		t.Fatalf("set first: %v", err)
	}
	if _, err := store.Get(ctx, "o", "r"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := store.Set(ctx, "o", "r", core.StarRecord{Name: "r", Organization: "o", Stars: 4}); err != nil {
		t.Fatalf("set second: %v", err)
	}
	record, err := store.Get(ctx, "o", "r")
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if record.Stars != 4 {
		t.Fatalf("expected invalidated cache to return the new record, got %d", record.Stars)
	}
	if base.calls() != 2 {
		t.Fatalf("expected a refetch after invalidation, got %d base calls", base.calls())
	}
}

func TestStore_PropagatesBaseErrors(t *testing.T) {
	base := newCountingStore()
	base.setErr = errors.New("write failed")
	store := newTestStore(t, base)

	if err := store.Set(context.Background(), "o", "r", core.StarRecord{}); err == nil {
		t.Fatalf("expected base set error")
	}
	if _, err := store.Get(context.Background(), "o", "missing"); !errors.Is(err, core.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCacheKey_Contract(t *testing.T) {
	got := CacheKey("my org", "repo/name")
	want := "go-stargazer::star_record::v1::my%20org::repo%2Fname"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for missing base store")
	}
	if _, err := New(memory.NewStore(), nil); err == nil {
		t.Fatalf("expected error for missing cache service")
	}
}
