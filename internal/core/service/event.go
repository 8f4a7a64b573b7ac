package service

import (
	"context"
	"log/slog"
	"sort"

	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/model/response"
	"eventsapp/internal/core/port"
)

// Stored distances are meters; clients ask for miles or kilometers.
var distanceMultipliers = map[string]float64{
	"mi": 0.000621371,
	"km": 0.001,
}

type EventService struct {
	repo port.EventRepository
}

func NewEventService(repo port.EventRepository) *EventService {
	return &EventService{repo}
}

// Distances returns all events ordered by ascending distance from the
// reference point, with the distance expressed in the requested unit. The
// distance is derived at the serialization boundary, never stored.
func (es *EventService) Distances(ctx context.Context, lat, lon float64, unit string) ([]response.EventResponse, error) {
	multiplier, ok := distanceMultipliers[unit]

	if !ok {
		return nil, apperror.BadRequest("Unit must be one of: mi, km")
	}

	events, err := es.repo.AllWithLocation(ctx)

	if err != nil {
		slog.Error("Event#Distances", "all_with_location", err)
		return nil, err
	}

	data := make([]response.EventResponse, 0, len(events))

	for _, event := range events {
		distance := event.Location.DistanceTo(lat, lon) * multiplier

		item := response.NewEventResponse(event)
		item.Distance = &distance

		data = append(data, item)
	}

	sort.Slice(data, func(i, j int) bool {
		return *data[i].Distance < *data[j].Distance
	})

	return data, nil
}

func (es *EventService) ParticipantNames(ctx context.Context, eventID int) ([]string, error) {
	if _, err := es.repo.GetByID(ctx, eventID); err != nil {
		return nil, apperror.NotFound("No event found with the id")
	}

	return es.repo.ListParticipantNames(ctx, eventID)
}
