package port

import (
	"context"

	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/response"
)

type EventRepository interface {
	Repository[domain.Event]

	// FindByParticipant is the reverse relationship behind a user's
	// "myEvents": a secondary lookup keyed by the join table, not a join.
	FindByParticipant(ctx context.Context, userID int) ([]domain.Event, error)
	ListParticipantNames(ctx context.Context, eventID int) ([]string, error)
	AllWithLocation(ctx context.Context) ([]domain.Event, error)
}

type EventService interface {
	Distances(ctx context.Context, lat, lon float64, unit string) ([]response.EventResponse, error)
	ParticipantNames(ctx context.Context, eventID int) ([]string, error)
}
