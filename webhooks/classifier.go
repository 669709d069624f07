package webhooks

import "github.com/goliatone/go-stargazer/core"

type Classification struct {
	EventType string
	InScope   bool
}

// Classify reports whether a declared event type is processed. Only the exact
// type "star" is; every other type is acknowledged and ignored.
func Classify(eventType string) Classification {
	return Classification{
		EventType: eventType,
		InScope:   eventType == core.EventTypeStar,
	}
}
