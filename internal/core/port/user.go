package port

import (
	"context"
	"time"

	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/query"
)

type UserRepository interface {
	Repository[domain.User]

	// GetByEmailWithPassword includes the hashed credential column, which is
	// excluded from every other read path.
	GetByEmailWithPassword(ctx context.Context, email string) (domain.User, error)
	GetByIDWithPassword(ctx context.Context, id int) (domain.User, error)
	UpdatePassword(ctx context.Context, id int, hash string, changedAt time.Time) error
	SoftDelete(ctx context.Context, id int) error
	AggregateAges(ctx context.Context, minAge int) (domain.AgeStats, error)
}

type UserService interface {
	List(ctx context.Context, criteria query.Criteria) ([]domain.User, error)
	Get(ctx context.Context, id int) (domain.User, error)
	GetMe(ctx context.Context, id int) (domain.User, []domain.Event, error)
	UpdateMe(ctx context.Context, id int, req request.UpdateMeRequest) (domain.User, error)
	DeleteMe(ctx context.Context, id int) error
	Aggregate(ctx context.Context) (domain.AgeStats, error)
}
