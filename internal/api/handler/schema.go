package handler

import (
	"time"

	"github.com/spaceapp/space-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Request / Response types ---

// planetRequest is the body of POST and PUT /api/planets. Any id in the body is ignored.
type planetRequest struct {
	Name              string  `json:"name"              validate:"notblank"`
	Type              string  `json:"type"              validate:"notblank"`
	RadiusKm          float64 `json:"radiusKm"          validate:"gt=0"`
	MassKg            float64 `json:"massKg"            validate:"gt=0"`
	OrbitalPeriodDays float64 `json:"orbitalPeriodDays" validate:"gt=0"`
}

func (r planetRequest) toInput(idempotencyKey string) ports.PlanetInput {
	return ports.PlanetInput{
		Name:              r.Name,
		Type:              r.Type,
		RadiusKm:          r.RadiusKm,
		MassKg:            r.MassKg,
		OrbitalPeriodDays: r.OrbitalPeriodDays,
		IdempotencyKey:    idempotencyKey,
	}
}

// moonRequest is the body of POST and PUT /api/moons.
type moonRequest struct {
	Name              string  `json:"name"              validate:"notblank"`
	DiameterKm        float64 `json:"diameterKm"        validate:"gt=0"`
	OrbitalPeriodDays float64 `json:"orbitalPeriodDays" validate:"gt=0"`
	PlanetID          int64   `json:"planetId"          validate:"required,gt=0"`
}

func (r moonRequest) toInput(idempotencyKey string) ports.MoonInput {
	return ports.MoonInput{
		Name:              r.Name,
		DiameterKm:        r.DiameterKm,
		OrbitalPeriodDays: r.OrbitalPeriodDays,
		PlanetID:          r.PlanetID,
		IdempotencyKey:    idempotencyKey,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"tokenType"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      ports.UserRecord `json:"user"`
}
