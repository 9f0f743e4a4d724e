package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

const planetColumns = `id, name, type, radius_km, mass_kg, orbital_period_days`

// PlanetRepository implements ports.PlanetRepository.
type PlanetRepository struct {
	db *DB
}

func NewPlanetRepository(db *DB) *PlanetRepository {
	return &PlanetRepository{db: db}
}

func (r *PlanetRepository) Create(ctx context.Context, p *domain.Planet) error {
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO planets (name, type, radius_km, mass_kg, orbital_period_days)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Name, p.Type, p.RadiusKm, p.MassKg, p.OrbitalPeriodDays,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert planet: %w", err)
	}
	return nil
}

func (r *PlanetRepository) FindByID(ctx context.Context, id int64) (*domain.Planet, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+planetColumns+` FROM planets WHERE id = $1`, id)

	p, err := scanPlanet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("planet", id)
		}
		return nil, fmt.Errorf("select planet %d: %w", id, err)
	}
	return p, nil
}

func (r *PlanetRepository) List(ctx context.Context, filter ports.PlanetFilter) ([]*domain.Planet, error) {
	query := `SELECT ` + planetColumns + ` FROM planets`
	var args []any
	if filter.Type != "" {
		query += ` WHERE LOWER(type) = LOWER($1)`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select planets: %w", err)
	}
	defer rows.Close()

	out := []*domain.Planet{}
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan planet: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlanetRepository) Update(ctx context.Context, p *domain.Planet) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE planets
		 SET name = $1, type = $2, radius_km = $3, mass_kg = $4, orbital_period_days = $5
		 WHERE id = $6`,
		p.Name, p.Type, p.RadiusKm, p.MassKg, p.OrbitalPeriodDays, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update planet %d: %w", p.ID, err)
	}
	return requireAffected(res, domain.NotFound("planet", p.ID))
}

func (r *PlanetRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM planets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete planet %d: %w", id, err)
	}
	return requireAffected(res, domain.NotFound("planet", id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlanet(s scanner) (*domain.Planet, error) {
	var p domain.Planet
	if err := s.Scan(&p.ID, &p.Name, &p.Type, &p.RadiusKm, &p.MassKg, &p.OrbitalPeriodDays); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
