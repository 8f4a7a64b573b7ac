package service

import (
	"context"
	"log/slog"
	"strings"

	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
)

// Users above this age feed the aggregate report.
const aggregateAgeCutoff = 21

type UserService struct {
	repo   port.UserRepository
	events port.EventRepository
}

func NewUserService(repo port.UserRepository, events port.EventRepository) *UserService {
	return &UserService{repo: repo, events: events}
}

func (us *UserService) List(ctx context.Context, criteria query.Criteria) ([]domain.User, error) {
	return us.repo.Find(ctx, criteria)
}

func (us *UserService) Get(ctx context.Context, id int) (domain.User, error) {
	return us.repo.GetByID(ctx, id)
}

// GetMe returns the profile plus the reverse relationship to events where the
// user participates, resolved as a secondary lookup.
func (us *UserService) GetMe(ctx context.Context, id int) (domain.User, []domain.Event, error) {
	user, err := us.repo.GetByID(ctx, id)

	if err != nil {
		return domain.User{}, nil, err
	}

	events, err := us.events.FindByParticipant(ctx, id)

	if err != nil {
		slog.Error("User#GetMe", "find_by_participant", err)
		return domain.User{}, nil, err
	}

	return user, events, nil
}

func (us *UserService) UpdateMe(ctx context.Context, id int, req request.UpdateMeRequest) (domain.User, error) {
	patch := map[string]any{}

	if req.Name != "" {
		patch["name"] = req.Name
	}

	if req.Email != "" {
		patch["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}

	if len(patch) == 0 {
		return us.repo.GetByID(ctx, id)
	}

	return us.repo.UpdateByID(ctx, id, patch)
}

func (us *UserService) DeleteMe(ctx context.Context, id int) error {
	return us.repo.SoftDelete(ctx, id)
}

func (us *UserService) Aggregate(ctx context.Context) (domain.AgeStats, error) {
	return us.repo.AggregateAges(ctx, aggregateAgeCutoff)
}
