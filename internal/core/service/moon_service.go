package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

const moonEntity = "moon"

// MoonService implements ports.MoonService. A moon is only ever written
// after its planet reference has been resolved in the same transaction.
type MoonService struct {
	moons   ports.MoonRepository
	planets ports.PlanetRepository
	tx      ports.Transactor
	logger  zerolog.Logger
	collaborators
}

func NewMoonService(moons ports.MoonRepository, planets ports.PlanetRepository, tx ports.Transactor, logger zerolog.Logger, opts ...Option) *MoonService {
	return &MoonService{
		moons:         moons,
		planets:       planets,
		tx:            tx,
		logger:        logger,
		collaborators: newCollaborators(opts),
	}
}

// List returns every moon, or only those whose planet name matches
// planetName case-insensitively when it is non-empty.
func (s *MoonService) List(ctx context.Context, planetName string) ([]ports.MoonRecord, error) {
	var out []ports.MoonRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		moons, err := s.moons.List(ctx, ports.MoonFilter{PlanetName: planetName})
		if err != nil {
			return fmt.Errorf("list moons: %w", err)
		}
		out = toMoonRecords(moons)
		return nil
	})
	return out, err
}

func (s *MoonService) Get(ctx context.Context, id int64) (*ports.MoonRecord, error) {
	var out *ports.MoonRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.moons.FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = toMoonRecord(m)
		return nil
	})
	return out, err
}

// CountByPlanet fails with NotFound for an unknown planet even though a
// zero count would otherwise be a valid answer.
func (s *MoonService) CountByPlanet(ctx context.Context, planetID int64) (int64, error) {
	var n int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.planets.FindByID(ctx, planetID); err != nil {
			return err
		}
		count, err := s.moons.CountByPlanet(ctx, planetID)
		if err != nil {
			return fmt.Errorf("count moons of planet %d: %w", planetID, err)
		}
		n = count
		return nil
	})
	return n, err
}

func (s *MoonService) Create(ctx context.Context, in ports.MoonInput) (*ports.MoonRecord, error) {
	if id, ok := s.replayID(ctx, s.logger, moonEntity, in.IdempotencyKey); ok {
		existing, err := s.Get(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("moon_id", id).Msg("idempotent replay")
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	m := domain.NewMoon(in.Name, in.DiameterKm, in.OrbitalPeriodDays, in.PlanetID)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		planet, err := s.planets.FindByID(ctx, in.PlanetID)
		if err != nil {
			return err
		}
		if err := s.moons.Create(ctx, m); err != nil {
			return fmt.Errorf("create moon: %w", err)
		}
		m.PlanetName = planet.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.remember(ctx, s.logger, moonEntity, in.IdempotencyKey, m.ID)
	s.recordAudit(ctx, s.logger, moonEntity, "create", m.ID, map[string]any{"name": m.Name, "planet_id": m.PlanetID})
	s.logger.Info().Int64("moon_id", m.ID).Int64("planet_id", m.PlanetID).Msg("moon created")

	return toMoonRecord(m), nil
}

// Update replaces every mutable field, including the planet reference,
// which must resolve.
func (s *MoonService) Update(ctx context.Context, id int64, in ports.MoonInput) (*ports.MoonRecord, error) {
	var out *ports.MoonRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.moons.FindByID(ctx, id)
		if err != nil {
			return err
		}
		planet, err := s.planets.FindByID(ctx, in.PlanetID)
		if err != nil {
			return err
		}

		m.Name = in.Name
		m.DiameterKm = in.DiameterKm
		m.OrbitalPeriodDays = in.OrbitalPeriodDays
		m.PlanetID = planet.ID
		m.PlanetName = planet.Name
		if err := m.Validate(); err != nil {
			return err
		}

		if err := s.moons.Update(ctx, m); err != nil {
			return fmt.Errorf("update moon %d: %w", id, err)
		}
		out = toMoonRecord(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, s.logger, moonEntity, "update", id, map[string]any{"name": out.Name, "planet_id": out.PlanetID})
	return out, nil
}

// Delete removes a single moon; its planet is not affected.
func (s *MoonService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.moons.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, s.logger, moonEntity, "delete", id, nil)
	return nil
}

func toMoonRecord(m *domain.Moon) *ports.MoonRecord {
	return &ports.MoonRecord{
		ID:                m.ID,
		Name:              m.Name,
		DiameterKm:        m.DiameterKm,
		OrbitalPeriodDays: m.OrbitalPeriodDays,
		PlanetID:          m.PlanetID,
		PlanetName:        m.PlanetName,
	}
}

func toMoonRecords(moons []*domain.Moon) []ports.MoonRecord {
	out := make([]ports.MoonRecord, len(moons))
	for i, m := range moons {
		out[i] = *toMoonRecord(m)
	}
	return out
}
