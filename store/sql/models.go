package sqlstore

import (
	"time"

	"github.com/goliatone/go-stargazer/core"
	"github.com/uptrace/bun"
)

type starRecordModel struct {
	bun.BaseModel `bun:"table:star_records,alias:sr"`

	ID           string    `bun:"id,pk"`
	Organization string    `bun:"organization,notnull"`
	Name         string    `bun:"name,notnull"`
	FullName     string    `bun:"full_name,notnull"`
	Stars        int       `bun:"stars,notnull"`
	LastUpdated  string    `bun:"last_updated,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newStarRecordModel(partitionKey string, itemKey string, record core.StarRecord, now time.Time) *starRecordModel {
	return &starRecordModel{
		Organization: partitionKey,
		Name:         itemKey,
		FullName:     record.FullName,
		Stars:        record.Stars,
		LastUpdated:  record.LastUpdated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (m *starRecordModel) apply(record core.StarRecord, now time.Time) {
	m.FullName = record.FullName
	m.Stars = record.Stars
	m.LastUpdated = record.LastUpdated
	m.UpdatedAt = now
}

func (m *starRecordModel) toDomain() core.StarRecord {
	if m == nil {
		return core.StarRecord{}
	}
	return core.StarRecord{
		FullName:     m.FullName,
		Name:         m.Name,
		Organization: m.Organization,
		LastUpdated:  m.LastUpdated,
		Stars:        m.Stars,
	}
}
