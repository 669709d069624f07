package inbound

import (
	"encoding/json"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-stargazer/core"
)

// ValidateStarPayload checks a star event body against the shape GitHub
// sends. Only in-scope deliveries are validated.
func ValidateStarPayload(body []byte) error {
	var event core.StarEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return inboundWrapError(err, goerrors.CategoryBadInput, "inbound: body is not valid JSON", http.StatusBadRequest, core.ServiceErrorBadInput, nil)
	}
	if err := ValidateStarEvent(event); err != nil {
		return inboundBadInput("inbound: invalid star event: "+err.Error(), nil)
	}
	return nil
}

func ValidateStarEvent(event core.StarEvent) error {
	return validation.Errors{
		"action": validation.Validate(event.Action,
			validation.Required,
			validation.In(core.StarActionCreated, core.StarActionDeleted),
		),
		"starred_at":                  validation.Validate(event.StarredAt, validation.Date(time.RFC3339)),
		"repository.name":             validation.Validate(event.Repository.Name, validation.Required),
		"repository.full_name":        validation.Validate(event.Repository.FullName, validation.Required),
		"repository.owner.login":      validation.Validate(event.Repository.Owner.Login, validation.Required),
		"repository.stargazers_count": validation.Validate(event.Repository.StargazersCount, validation.Min(0)),
		"sender.login":                validation.Validate(event.Sender.Login, validation.Required),
	}.Filter()
}
