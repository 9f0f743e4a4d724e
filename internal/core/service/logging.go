package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// logCall finishes a decorated call. Taxonomy errors are client mistakes and
// go out at warn; anything else is logged at error.
func logCall(log zerolog.Logger, method string, err error) {
	if err == nil {
		log.Debug().Str("method", method).Msg("service call completed")
		return
	}
	ev := log.Error()
	if isExpected(err) {
		ev = log.Warn()
	}
	ev.Err(err).Str("method", method).Msg("service call failed")
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInvalidCredentials)
}

type loggingPlanetService struct {
	next   ports.PlanetService
	logger zerolog.Logger
}

// NewLoggingPlanetService logs the arguments and outcome of every call.
func NewLoggingPlanetService(next ports.PlanetService, logger zerolog.Logger) ports.PlanetService {
	return &loggingPlanetService{next: next, logger: logger.With().Str("service", "planet").Logger()}
}

func (s *loggingPlanetService) List(ctx context.Context, planetType string) (out []ports.PlanetRecord, err error) {
	s.logger.Debug().Str("method", "List").Str("type", planetType).Msg("service call")
	defer func() { logCall(s.logger, "List", err) }()
	return s.next.List(ctx, planetType)
}

func (s *loggingPlanetService) Get(ctx context.Context, id int64) (out *ports.PlanetRecord, err error) {
	s.logger.Debug().Str("method", "Get").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Get", err) }()
	return s.next.Get(ctx, id)
}

func (s *loggingPlanetService) Create(ctx context.Context, in ports.PlanetInput) (out *ports.PlanetRecord, err error) {
	s.logger.Debug().Str("method", "Create").Str("name", in.Name).Str("type", in.Type).
		Float64("radius_km", in.RadiusKm).Float64("mass_kg", in.MassKg).
		Float64("orbital_period_days", in.OrbitalPeriodDays).Msg("service call")
	defer func() { logCall(s.logger, "Create", err) }()
	return s.next.Create(ctx, in)
}

func (s *loggingPlanetService) Update(ctx context.Context, id int64, in ports.PlanetInput) (out *ports.PlanetRecord, err error) {
	s.logger.Debug().Str("method", "Update").Int64("id", id).Str("name", in.Name).Str("type", in.Type).Msg("service call")
	defer func() { logCall(s.logger, "Update", err) }()
	return s.next.Update(ctx, id, in)
}

func (s *loggingPlanetService) Delete(ctx context.Context, id int64) (err error) {
	s.logger.Debug().Str("method", "Delete").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Delete", err) }()
	return s.next.Delete(ctx, id)
}

func (s *loggingPlanetService) Names(ctx context.Context) (out []string, err error) {
	s.logger.Debug().Str("method", "Names").Msg("service call")
	defer func() { logCall(s.logger, "Names", err) }()
	return s.next.Names(ctx)
}

func (s *loggingPlanetService) NameMass(ctx context.Context) (out []ports.PlanetNameMassRecord, err error) {
	s.logger.Debug().Str("method", "NameMass").Msg("service call")
	defer func() { logCall(s.logger, "NameMass", err) }()
	return s.next.NameMass(ctx)
}

func (s *loggingPlanetService) Moons(ctx context.Context, id int64) (out []ports.MoonRecord, err error) {
	s.logger.Debug().Str("method", "Moons").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Moons", err) }()
	return s.next.Moons(ctx, id)
}

type loggingMoonService struct {
	next   ports.MoonService
	logger zerolog.Logger
}

// NewLoggingMoonService logs the arguments and outcome of every call.
func NewLoggingMoonService(next ports.MoonService, logger zerolog.Logger) ports.MoonService {
	return &loggingMoonService{next: next, logger: logger.With().Str("service", "moon").Logger()}
}

func (s *loggingMoonService) List(ctx context.Context, planetName string) (out []ports.MoonRecord, err error) {
	s.logger.Debug().Str("method", "List").Str("planet_name", planetName).Msg("service call")
	defer func() { logCall(s.logger, "List", err) }()
	return s.next.List(ctx, planetName)
}

func (s *loggingMoonService) Get(ctx context.Context, id int64) (out *ports.MoonRecord, err error) {
	s.logger.Debug().Str("method", "Get").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Get", err) }()
	return s.next.Get(ctx, id)
}

func (s *loggingMoonService) CountByPlanet(ctx context.Context, planetID int64) (n int64, err error) {
	s.logger.Debug().Str("method", "CountByPlanet").Int64("planet_id", planetID).Msg("service call")
	defer func() { logCall(s.logger, "CountByPlanet", err) }()
	return s.next.CountByPlanet(ctx, planetID)
}

func (s *loggingMoonService) Create(ctx context.Context, in ports.MoonInput) (out *ports.MoonRecord, err error) {
	s.logger.Debug().Str("method", "Create").Str("name", in.Name).Int64("planet_id", in.PlanetID).
		Float64("diameter_km", in.DiameterKm).Float64("orbital_period_days", in.OrbitalPeriodDays).Msg("service call")
	defer func() { logCall(s.logger, "Create", err) }()
	return s.next.Create(ctx, in)
}

func (s *loggingMoonService) Update(ctx context.Context, id int64, in ports.MoonInput) (out *ports.MoonRecord, err error) {
	s.logger.Debug().Str("method", "Update").Int64("id", id).Str("name", in.Name).Int64("planet_id", in.PlanetID).Msg("service call")
	defer func() { logCall(s.logger, "Update", err) }()
	return s.next.Update(ctx, id, in)
}

func (s *loggingMoonService) Delete(ctx context.Context, id int64) (err error) {
	s.logger.Debug().Str("method", "Delete").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Delete", err) }()
	return s.next.Delete(ctx, id)
}

type loggingUserService struct {
	next   ports.UserService
	logger zerolog.Logger
}

// NewLoggingUserService logs the arguments and outcome of every call. The
// password is never part of the log line.
func NewLoggingUserService(next ports.UserService, logger zerolog.Logger) ports.UserService {
	return &loggingUserService{next: next, logger: logger.With().Str("service", "user").Logger()}
}

func (s *loggingUserService) Get(ctx context.Context, id int64) (out *ports.UserRecord, err error) {
	s.logger.Debug().Str("method", "Get").Int64("id", id).Msg("service call")
	defer func() { logCall(s.logger, "Get", err) }()
	return s.next.Get(ctx, id)
}

func (s *loggingUserService) Create(ctx context.Context, in ports.CreateUserInput) (out *ports.UserRecord, err error) {
	s.logger.Debug().Str("method", "Create").Str("username", in.Username).Str("role", string(in.Role)).Msg("service call")
	defer func() { logCall(s.logger, "Create", err) }()
	return s.next.Create(ctx, in)
}
