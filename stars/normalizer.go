package stars

import (
	"time"

	"github.com/goliatone/go-stargazer/core"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Normalizer struct {
	Now core.Clock
}

func NewNormalizer(now core.Clock) Normalizer {
	return Normalizer{Now: now}
}

// Normalize maps an event onto the record it produces. The sender's star
// count is copied as reported.
func (n Normalizer) Normalize(event core.StarEvent) core.StarRecord {
	lastUpdated := event.StarredAt
	if lastUpdated == "" {
		lastUpdated = FormatTimestamp(n.now())
	}
	return core.StarRecord{
		FullName:     event.Repository.FullName,
		Name:         event.Repository.Name,
		Organization: event.Repository.Owner.Login,
		LastUpdated:  lastUpdated,
		Stars:        event.Repository.StargazersCount,
	}
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return core.SystemClock()
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
