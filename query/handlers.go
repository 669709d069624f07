package query

import (
	"context"
	"sort"

	"github.com/goliatone/go-stargazer/core"
)

type RecordReader interface {
	Get(ctx context.Context, organization string, name string) (core.StarRecord, error)
}

// RecordLister is implemented by stores that can enumerate a partition.
type RecordLister interface {
	List(ctx context.Context, organization string) ([]core.StarRecord, error)
}

type GetStarRecordQuery struct {
	reader RecordReader
}

func NewGetStarRecordQuery(reader RecordReader) *GetStarRecordQuery {
	return &GetStarRecordQuery{reader: reader}
}

func (q *GetStarRecordQuery) Query(ctx context.Context, msg GetStarRecordMessage) (core.StarRecord, error) {
	if q == nil || q.reader == nil {
		return core.StarRecord{}, queryDependencyError("query: star record reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.StarRecord{}, err
	}
	return q.reader.Get(ctx, msg.Organization, msg.Name)
}

type ListStarRecordsQuery struct {
	lister RecordLister
}

func NewListStarRecordsQuery(lister RecordLister) *ListStarRecordsQuery {
	return &ListStarRecordsQuery{lister: lister}
}

// Query returns the organization's records ordered by name.
func (q *ListStarRecordsQuery) Query(ctx context.Context, msg ListStarRecordsMessage) ([]core.StarRecord, error) {
	if q == nil || q.lister == nil {
		return nil, queryDependencyError("query: star record lister is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	records, err := q.lister.List(ctx, msg.Organization)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}
