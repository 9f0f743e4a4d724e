package ports

import "context"

// MoonInput carries the mutable fields of a moon.
type MoonInput struct {
	Name              string
	DiameterKm        float64
	OrbitalPeriodDays float64
	PlanetID          int64
	IdempotencyKey    string
}

// MoonRecord is the externally visible moon shape.
type MoonRecord struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	DiameterKm        float64 `json:"diameterKm"`
	OrbitalPeriodDays float64 `json:"orbitalPeriodDays"`
	PlanetID          int64   `json:"planetId"`
	PlanetName        string  `json:"planetName"`
}

// MoonService defines use-case operations for moons.
type MoonService interface {
	List(ctx context.Context, planetName string) ([]MoonRecord, error)
	Get(ctx context.Context, id int64) (*MoonRecord, error)
	CountByPlanet(ctx context.Context, planetID int64) (int64, error)
	Create(ctx context.Context, in MoonInput) (*MoonRecord, error)
	Update(ctx context.Context, id int64, in MoonInput) (*MoonRecord, error)
	Delete(ctx context.Context, id int64) error
}
