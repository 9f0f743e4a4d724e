package ports

import "context"

// PlanetInput carries the mutable fields of a planet.
type PlanetInput struct {
	Name              string
	Type              string
	RadiusKm          float64
	MassKg            float64
	OrbitalPeriodDays float64
	// IdempotencyKey, when set, makes Create return the planet previously
	// created under the same key instead of creating another one.
	IdempotencyKey string
}

// PlanetRecord is the externally visible planet shape.
type PlanetRecord struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	RadiusKm          float64 `json:"radiusKm"`
	MassKg            float64 `json:"massKg"`
	OrbitalPeriodDays float64 `json:"orbitalPeriodDays"`
}

// PlanetNameMassRecord is the name/mass projection.
type PlanetNameMassRecord struct {
	Name   string  `json:"name"`
	MassKg float64 `json:"massKg"`
}

// PlanetService defines use-case operations for planets.
type PlanetService interface {
	List(ctx context.Context, planetType string) ([]PlanetRecord, error)
	Get(ctx context.Context, id int64) (*PlanetRecord, error)
	Create(ctx context.Context, in PlanetInput) (*PlanetRecord, error)
	Update(ctx context.Context, id int64, in PlanetInput) (*PlanetRecord, error)
	Delete(ctx context.Context, id int64) error
	Names(ctx context.Context) ([]string, error)
	NameMass(ctx context.Context) ([]PlanetNameMassRecord, error)
	Moons(ctx context.Context, id int64) ([]MoonRecord, error)
}
