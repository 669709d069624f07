package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-stargazer/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StarRecordStore keeps one row per (organization, name) in star_records.
// Keys are stored as given, matching the other record stores.
type StarRecordStore struct {
	db   *bun.DB
	repo repository.Repository[*starRecordModel]
	now  core.Clock
}

func NewStarRecordStore(db *bun.DB) (*StarRecordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*starRecordModel](db, starRecordHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid star record repository wiring: %w", err)
		}
	}
	return &StarRecordStore{
		db:   db,
		repo: repo,
		now:  core.SystemClock,
	}, nil
}

// Set overwrites the row for the key. Concurrent first writes for the same
// key collapse into one row through the unique index.
func (s *StarRecordStore) Set(ctx context.Context, partitionKey string, itemKey string, record core.StarRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: star record store is not configured")
	}
	now := s.now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := findStarRecordTx(ctx, tx, partitionKey, itemKey)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.apply(record, now)
			_, updateErr := tx.NewUpdate().Model(existing).Where("id = ?", existing.ID).Exec(ctx)
			return updateErr
		}

		model := newStarRecordModel(partitionKey, itemKey, record, now)
		model.ID = uuid.NewString()
		_, insertErr := tx.NewInsert().
			Model(model).
			On("CONFLICT (organization, name) DO UPDATE").
			Set("full_name = EXCLUDED.full_name").
			Set("stars = EXCLUDED.stars").
			Set("last_updated = EXCLUDED.last_updated").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return insertErr
	})
}

func (s *StarRecordStore) Get(ctx context.Context, partitionKey string, itemKey string) (core.StarRecord, error) {
	if s == nil || s.repo == nil {
		return core.StarRecord{}, fmt.Errorf("sqlstore: star record store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("organization", "=", partitionKey),
		repository.SelectBy("name", "=", itemKey),
	)
	if err != nil {
		return core.StarRecord{}, err
	}
	if len(records) == 0 {
		return core.StarRecord{}, core.ErrRecordNotFound
	}
	return records[0].toDomain(), nil
}

func (s *StarRecordStore) List(ctx context.Context, partitionKey string) ([]core.StarRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: star record store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("organization", "=", partitionKey),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.StarRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func findStarRecordTx(ctx context.Context, tx bun.Tx, organization string, name string) (*starRecordModel, error) {
	record := &starRecordModel{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.organization = ?", organization).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
