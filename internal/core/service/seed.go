package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// SeedUser is a user created at startup. Users without a password are skipped.
type SeedUser struct {
	Username string
	Password string
	Role     domain.Role
}

// SeedMoon is a moon created together with its planet.
type SeedMoon struct {
	Name              string
	DiameterKm        float64
	OrbitalPeriodDays float64
}

// SeedPlanet is a planet created at startup along with its moons.
type SeedPlanet struct {
	Name              string
	Type              string
	RadiusKm          float64
	MassKg            float64
	OrbitalPeriodDays float64
	Moons             []SeedMoon
}

// SeedData is everything Seed creates.
type SeedData struct {
	Users   []SeedUser
	Planets []SeedPlanet
}

// DefaultSeedPlanets returns Earth and Jupiter with their best known moons.
func DefaultSeedPlanets() []SeedPlanet {
	return []SeedPlanet{
		{
			Name: "Earth", Type: "Terrestrial", RadiusKm: 6371.0, MassKg: 5.972e24, OrbitalPeriodDays: 365.25,
			Moons: []SeedMoon{{Name: "Moon", DiameterKm: 3474.8, OrbitalPeriodDays: 27.3}},
		},
		{
			Name: "Jupiter", Type: "Gas Giant", RadiusKm: 69911.0, MassKg: 1.898e27, OrbitalPeriodDays: 4332.59,
			Moons: []SeedMoon{
				{Name: "Io", DiameterKm: 3643.2, OrbitalPeriodDays: 1.77},
				{Name: "Europa", DiameterKm: 3121.6, OrbitalPeriodDays: 3.55},
			},
		},
	}
}

// DefaultSeedUsers returns one user per role with the given passwords.
func DefaultSeedUsers(adminPassword, staffPassword, studentPassword string) []SeedUser {
	return []SeedUser{
		{Username: "admin", Password: adminPassword, Role: domain.RoleAdmin},
		{Username: "staff", Password: staffPassword, Role: domain.RoleStaff},
		{Username: "student", Password: studentPassword, Role: domain.RoleStudent},
	}
}

// Seed populates the store through the ordinary service contracts. It must
// run once, before the API accepts traffic. Existing users are left alone
// and planets are only seeded into an empty store, so restarts are harmless.
func Seed(ctx context.Context, users ports.UserService, planets ports.PlanetService, moons ports.MoonService, data SeedData, log zerolog.Logger) error {
	for _, u := range data.Users {
		if u.Password == "" {
			log.Info().Str("username", u.Username).Msg("seed user skipped, no password configured")
			continue
		}
		_, err := users.Create(ctx, ports.CreateUserInput{Username: u.Username, Password: u.Password, Role: u.Role})
		switch {
		case err == nil:
			log.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("seed user created")
		case errors.Is(err, domain.ErrConflict):
			log.Debug().Str("username", u.Username).Msg("seed user already exists")
		default:
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	existing, err := planets.List(ctx, "")
	if err != nil {
		return fmt.Errorf("seed planets: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("planets", len(existing)).Msg("planets already present, skipping planet seed")
		return nil
	}

	for _, p := range data.Planets {
		created, err := planets.Create(ctx, ports.PlanetInput{
			Name:              p.Name,
			Type:              p.Type,
			RadiusKm:          p.RadiusKm,
			MassKg:            p.MassKg,
			OrbitalPeriodDays: p.OrbitalPeriodDays,
		})
		if err != nil {
			return fmt.Errorf("seed planet %s: %w", p.Name, err)
		}
		for _, m := range p.Moons {
			_, err := moons.Create(ctx, ports.MoonInput{
				Name:              m.Name,
				DiameterKm:        m.DiameterKm,
				OrbitalPeriodDays: m.OrbitalPeriodDays,
				PlanetID:          created.ID,
			})
			if err != nil {
				return fmt.Errorf("seed moon %s: %w", m.Name, err)
			}
		}
		log.Info().Str("planet", p.Name).Int("moons", len(p.Moons)).Msg("seed planet created")
	}
	return nil
}
