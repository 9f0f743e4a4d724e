package ports

import (
	"context"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// MoonFilter narrows MoonRepository.List. Zero values disable a filter.
type MoonFilter struct {
	PlanetID   int64
	PlanetName string // case-insensitive exact match on the owning planet
}

// MoonRepository persists moons. Returned moons have PlanetName populated.
type MoonRepository interface {
	Create(ctx context.Context, m *domain.Moon) error
	FindByID(ctx context.Context, id int64) (*domain.Moon, error)
	List(ctx context.Context, filter MoonFilter) ([]*domain.Moon, error)
	CountByPlanet(ctx context.Context, planetID int64) (int64, error)
	Update(ctx context.Context, m *domain.Moon) error
	Delete(ctx context.Context, id int64) error
	// DeleteByPlanet removes every moon owned by planetID and reports how many went.
	DeleteByPlanet(ctx context.Context, planetID int64) (int64, error)
}
