package command

import (
	"strings"

	"github.com/goliatone/go-stargazer/core"
)

const (
	TypeUpsertStarRecord = "stargazer.command.star_record.upsert"
	TypeProcessDelivery  = "stargazer.command.delivery.process"
)

// UpsertStarRecordMessage writes a record directly, bypassing the webhook
// pipeline. Used for manual backfills.
type UpsertStarRecordMessage struct {
	Record core.StarRecord
}

func (UpsertStarRecordMessage) Type() string { return TypeUpsertStarRecord }

func (m UpsertStarRecordMessage) Validate() error {
	if strings.TrimSpace(m.Record.Organization) == "" {
		return commandValidationError("organization", "organization is required")
	}
	if strings.TrimSpace(m.Record.Name) == "" {
		return commandValidationError("name", "name is required")
	}
	if m.Record.Stars < 0 {
		return commandValidationError("stars", "stars must not be negative")
	}
	if m.Record.FullName != "" && m.Record.FullName != m.Record.Organization+"/"+m.Record.Name {
		return commandInvalidInputError("command: full name must be <organization>/<name>")
	}
	return nil
}

type ProcessDeliveryMessage struct {
	Delivery core.Delivery
}

func (ProcessDeliveryMessage) Type() string { return TypeProcessDelivery }

func (ProcessDeliveryMessage) Validate() error {
	return nil
}
