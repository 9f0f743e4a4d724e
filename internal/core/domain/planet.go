package domain

// Planet is the aggregate root owning a set of Moons. Deleting a Planet
// deletes every Moon it owns in the same transaction.
type Planet struct {
	ID                int64
	Name              string
	Type              string
	RadiusKm          float64
	MassKg            float64
	OrbitalPeriodDays float64
	Moons             []Moon
}

// NewPlanet builds an unsaved Planet. The identity is assigned by the store.
func NewPlanet(name, planetType string, radiusKm, massKg, orbitalPeriodDays float64) *Planet {
	return &Planet{
		Name:              name,
		Type:              planetType,
		RadiusKm:          radiusKm,
		MassKg:            massKg,
		OrbitalPeriodDays: orbitalPeriodDays,
	}
}

// Replace overwrites every mutable field. The Moon collection is left untouched.
func (p *Planet) Replace(other Planet) {
	p.Name = other.Name
	p.Type = other.Type
	p.RadiusKm = other.RadiusKm
	p.MassKg = other.MassKg
	p.OrbitalPeriodDays = other.OrbitalPeriodDays
}

// MoonIDs returns the identities of the owned Moons.
func (p *Planet) MoonIDs() []int64 {
	ids := make([]int64, 0, len(p.Moons))
	for _, m := range p.Moons {
		ids = append(ids, m.ID)
	}
	return ids
}

// PlanetNameMass is the name/mass projection of a Planet.
type PlanetNameMass struct {
	Name   string
	MassKg float64
}

// Validate checks the structural invariants of a Planet.
func (p *Planet) Validate() error {
	fields := map[string]string{}
	requireText(fields, "name", p.Name)
	requireText(fields, "type", p.Type)
	requirePositive(fields, "radiusKm", p.RadiusKm)
	requirePositive(fields, "massKg", p.MassKg)
	requirePositive(fields, "orbitalPeriodDays", p.OrbitalPeriodDays)
	return fieldsError(fields)
}
