package ports

import (
	"context"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// PartFilter narrows a part listing. A nil IsDemo lists both kinds.
type PartFilter struct {
	IsDemo *bool
}

// PartStore is the persistence surface the HTTP layer needs.
type PartStore interface {
	List(ctx context.Context, filter PartFilter) ([]domain.Part, error)
	Get(ctx context.Context, id int64) (*domain.Part, error)
	Create(ctx context.Context, name, description string) (*domain.Part, error)
	Update(ctx context.Context, id int64, name, description string) (*domain.Part, error)
	Delete(ctx context.Context, id int64) error
}

// DemoPartStore upserts a demo part matched on (name, is_demo=true).
// The bool reports whether the row was created rather than updated.
type DemoPartStore interface {
	UpsertDemo(ctx context.Context, name, description string) (*domain.Part, bool, error)
}
