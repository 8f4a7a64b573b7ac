package port

import (
	"context"

	"eventsapp/internal/core/query"
)

// Repository is the persistable-entity capability shared by every resource.
// The generic HTTP handlers operate purely through it; entity-specific lookups
// live on the concrete repository interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	GetByID(ctx context.Context, id int) (T, error)
	Find(ctx context.Context, criteria query.Criteria) ([]T, error)
	UpdateByID(ctx context.Context, id int, patch map[string]any) (T, error)
	DeleteByID(ctx context.Context, id int) error
}
