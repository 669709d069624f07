package sqlstore

import "github.com/goliatone/go-stargazer/core"

var (
	_ core.RecordStore  = (*StarRecordStore)(nil)
	_ core.RecordLister = (*StarRecordStore)(nil)
)
