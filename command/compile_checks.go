package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[UpsertStarRecordMessage] = (*UpsertStarRecordCommand)(nil)
	_ gocmd.Commander[ProcessDeliveryMessage]  = (*ProcessDeliveryCommand)(nil)
)
