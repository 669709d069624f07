package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-stargazer/core"
)

var (
	_ gocmd.Querier[GetStarRecordMessage, core.StarRecord]     = (*GetStarRecordQuery)(nil)
	_ gocmd.Querier[ListStarRecordsMessage, []core.StarRecord] = (*ListStarRecordsQuery)(nil)
)
