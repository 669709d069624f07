package stars

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-stargazer/core"
)

// Gateway writes normalized records into a core.RecordStore, keyed by
// organization then repository name.
type Gateway struct {
	store core.RecordStore
}

func NewGateway(store core.RecordStore) (*Gateway, error) {
	if store == nil {
		return nil, fmt.Errorf("stars: record store is required")
	}
	return &Gateway{store: store}, nil
}

func (g *Gateway) Upsert(ctx context.Context, record core.StarRecord) error {
	if g == nil || g.store == nil {
		return core.NewInternal("stars: gateway is not configured")
	}
	if err := g.store.Set(ctx, record.Organization, record.Name, record); err != nil {
		return core.NewStorageFailure(err, "stars: store set failed", map[string]any{
			"organization": record.Organization,
			"name":         record.Name,
		})
	}
	return nil
}

func (g *Gateway) Get(ctx context.Context, organization string, name string) (core.StarRecord, error) {
	if g == nil || g.store == nil {
		return core.StarRecord{}, core.NewInternal("stars: gateway is not configured")
	}
	key := core.RecordKey{Organization: organization, Name: name}
	if err := key.Validate(); err != nil {
		return core.StarRecord{}, core.NewBadInput(err.Error(), nil)
	}
	record, err := g.store.Get(ctx, organization, name)
	if err != nil {
		metadata := map[string]any{"organization": organization, "name": name}
		if errors.Is(err, core.ErrRecordNotFound) {
			return core.StarRecord{}, core.NewNotFound(err, "stars: record not found", metadata)
		}
		return core.StarRecord{}, core.NewStorageFailure(err, "stars: store get failed", metadata)
	}
	return record, nil
}

// List returns every record stored for organization when the backing store
// can enumerate partitions.
func (g *Gateway) List(ctx context.Context, organization string) ([]core.StarRecord, error) {
	if g == nil || g.store == nil {
		return nil, core.NewInternal("stars: gateway is not configured")
	}
	if organization == "" {
		return nil, core.NewBadInput("stars: organization is required", nil)
	}
	lister, ok := g.store.(core.RecordLister)
	if !ok {
		return nil, core.NewInternal("stars: store does not support listing")
	}
	records, err := lister.List(ctx, organization)
	if err != nil {
		return nil, core.NewStorageFailure(err, "stars: store list failed", map[string]any{
			"organization": organization,
		})
	}
	return records, nil
}
