package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"

	"eventsapp/internal/core/domain"
)

// NewEvent builds a persistable event around the given participants.
func NewEvent(participants []int, customData ...map[string]any) domain.Event {
	event := fab.New(domain.Event{}).Build(customData...)

	event.Participants = participants

	if event.Duration <= 0 {
		event.Duration = 2
	}

	if event.StartDate.IsZero() {
		event.StartDate = time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	if event.Location.Type == "" {
		event.Location = domain.GeoPoint{
			Type:      "Point",
			Longitude: -46.633308,
			Latitude:  -23.55052,
			Address:   "Praça da Sé, São Paulo",
		}
	}

	for _, data := range customData {
		if start, ok := data["StartDate"].(time.Time); ok {
			event.StartDate = start
		}

		if location, ok := data["Location"].(domain.GeoPoint); ok {
			event.Location = location
		}

		if duration, ok := data["Duration"].(float64); ok {
			event.Duration = duration
		}
	}

	return event
}
