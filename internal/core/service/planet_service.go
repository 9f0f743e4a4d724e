package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

const planetEntity = "planet"

// PlanetService implements ports.PlanetService. Every call runs inside one
// store transaction.
type PlanetService struct {
	planets ports.PlanetRepository
	moons   ports.MoonRepository
	tx      ports.Transactor
	logger  zerolog.Logger
	collaborators
}

func NewPlanetService(planets ports.PlanetRepository, moons ports.MoonRepository, tx ports.Transactor, logger zerolog.Logger, opts ...Option) *PlanetService {
	return &PlanetService{
		planets:       planets,
		moons:         moons,
		tx:            tx,
		logger:        logger,
		collaborators: newCollaborators(opts),
	}
}

// List returns every planet, or only those whose type matches planetType
// case-insensitively when it is non-empty.
func (s *PlanetService) List(ctx context.Context, planetType string) ([]ports.PlanetRecord, error) {
	var out []ports.PlanetRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		planets, err := s.planets.List(ctx, ports.PlanetFilter{Type: planetType})
		if err != nil {
			return fmt.Errorf("list planets: %w", err)
		}
		out = toPlanetRecords(planets)
		return nil
	})
	return out, err
}

func (s *PlanetService) Get(ctx context.Context, id int64) (*ports.PlanetRecord, error) {
	var out *ports.PlanetRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.planets.FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = toPlanetRecord(p)
		return nil
	})
	return out, err
}

// Create assigns a fresh identity; any id the caller had in mind is ignored.
func (s *PlanetService) Create(ctx context.Context, in ports.PlanetInput) (*ports.PlanetRecord, error) {
	if id, ok := s.replayID(ctx, s.logger, planetEntity, in.IdempotencyKey); ok {
		existing, err := s.Get(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("planet_id", id).Msg("idempotent replay")
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	p := domain.NewPlanet(in.Name, in.Type, in.RadiusKm, in.MassKg, in.OrbitalPeriodDays)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.planets.Create(ctx, p)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create planet")
		return nil, fmt.Errorf("create planet: %w", err)
	}

	s.remember(ctx, s.logger, planetEntity, in.IdempotencyKey, p.ID)
	s.recordAudit(ctx, s.logger, planetEntity, "create", p.ID, map[string]any{"name": p.Name, "type": p.Type})
	s.logger.Info().Int64("planet_id", p.ID).Str("name", p.Name).Msg("planet created")

	return toPlanetRecord(p), nil
}

// Update replaces every mutable field at once. Owned moons are untouched.
func (s *PlanetService) Update(ctx context.Context, id int64, in ports.PlanetInput) (*ports.PlanetRecord, error) {
	var out *ports.PlanetRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.planets.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.Replace(*domain.NewPlanet(in.Name, in.Type, in.RadiusKm, in.MassKg, in.OrbitalPeriodDays))
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.planets.Update(ctx, p); err != nil {
			return fmt.Errorf("update planet %d: %w", id, err)
		}
		out = toPlanetRecord(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, s.logger, planetEntity, "update", id, map[string]any{"name": out.Name, "type": out.Type})
	return out, nil
}

// Delete removes the planet and every moon it owns in one transaction:
// either all of them disappear or none do.
func (s *PlanetService) Delete(ctx context.Context, id int64) error {
	var removedMoons int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.planets.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := s.moons.DeleteByPlanet(ctx, id)
		if err != nil {
			return fmt.Errorf("delete moons of planet %d: %w", id, err)
		}
		if err := s.planets.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete planet %d: %w", id, err)
		}
		removedMoons = n
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, s.logger, planetEntity, "delete", id, map[string]any{"moons_removed": removedMoons})
	s.logger.Info().Int64("planet_id", id).Int64("moons_removed", removedMoons).Msg("planet deleted")
	return nil
}

func (s *PlanetService) Names(ctx context.Context) ([]string, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names, nil
}

func (s *PlanetService) NameMass(ctx context.Context) ([]ports.PlanetNameMassRecord, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]ports.PlanetNameMassRecord, len(records))
	for i, r := range records {
		out[i] = ports.PlanetNameMassRecord{Name: r.Name, MassKg: r.MassKg}
	}
	return out, nil
}

// Moons returns the planet's moon collection.
func (s *PlanetService) Moons(ctx context.Context, id int64) ([]ports.MoonRecord, error) {
	var out []ports.MoonRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.planets.FindByID(ctx, id)
		if err != nil {
			return err
		}
		moons, err := s.moons.List(ctx, ports.MoonFilter{PlanetID: p.ID})
		if err != nil {
			return fmt.Errorf("list moons of planet %d: %w", id, err)
		}
		out = toMoonRecords(moons)
		return nil
	})
	return out, err
}

func toPlanetRecord(p *domain.Planet) *ports.PlanetRecord {
	return &ports.PlanetRecord{
		ID:                p.ID,
		Name:              p.Name,
		Type:              p.Type,
		RadiusKm:          p.RadiusKm,
		MassKg:            p.MassKg,
		OrbitalPeriodDays: p.OrbitalPeriodDays,
	}
}

func toPlanetRecords(planets []*domain.Planet) []ports.PlanetRecord {
	out := make([]ports.PlanetRecord, len(planets))
	for i, p := range planets {
		out[i] = *toPlanetRecord(p)
	}
	return out
}
