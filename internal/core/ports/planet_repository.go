package ports

import (
	"context"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// PlanetFilter narrows PlanetRepository.List. Zero values disable a filter.
type PlanetFilter struct {
	Type string // case-insensitive exact match
}

// PlanetRepository persists planets. It enforces no business rules.
type PlanetRepository interface {
	// Create inserts p and sets p.ID to the freshly assigned identity.
	Create(ctx context.Context, p *domain.Planet) error
	FindByID(ctx context.Context, id int64) (*domain.Planet, error)
	List(ctx context.Context, filter PlanetFilter) ([]*domain.Planet, error)
	Update(ctx context.Context, p *domain.Planet) error
	Delete(ctx context.Context, id int64) error
}
