package domain

// Moon always belongs to exactly one Planet. PlanetName is a read-side
// back-reference filled in by the store; it carries no ownership.
type Moon struct {
	ID                int64
	Name              string
	DiameterKm        float64
	OrbitalPeriodDays float64
	PlanetID          int64
	PlanetName        string
}

// NewMoon builds an unsaved Moon attached to planetID.
func NewMoon(name string, diameterKm, orbitalPeriodDays float64, planetID int64) *Moon {
	return &Moon{
		Name:              name,
		DiameterKm:        diameterKm,
		OrbitalPeriodDays: orbitalPeriodDays,
		PlanetID:          planetID,
	}
}

// Validate checks the structural invariants of a Moon.
func (m *Moon) Validate() error {
	fields := map[string]string{}
	requireText(fields, "name", m.Name)
	requirePositive(fields, "diameterKm", m.DiameterKm)
	requirePositive(fields, "orbitalPeriodDays", m.OrbitalPeriodDays)
	if m.PlanetID <= 0 {
		fields["planetId"] = "is required"
	}
	return fieldsError(fields)
}
