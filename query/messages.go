package query

import "strings"

const (
	TypeGetStarRecord   = "stargazer.query.star_record.get"
	TypeListStarRecords = "stargazer.query.star_record.list"
)

type GetStarRecordMessage struct {
	Organization string
	Name         string
}

func (GetStarRecordMessage) Type() string { return TypeGetStarRecord }

func (m GetStarRecordMessage) Validate() error {
	if strings.TrimSpace(m.Organization) == "" {
		return queryValidationError("organization", "organization is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return queryValidationError("name", "name is required")
	}
	return nil
}

type ListStarRecordsMessage struct {
	Organization string
}

func (ListStarRecordsMessage) Type() string { return TypeListStarRecords }

func (m ListStarRecordsMessage) Validate() error {
	if strings.TrimSpace(m.Organization) == "" {
		return queryValidationError("organization", "organization is required")
	}
	return nil
}
