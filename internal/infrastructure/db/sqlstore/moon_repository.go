package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

const moonSelect = `SELECT m.id, m.name, m.diameter_km, m.orbital_period_days, m.planet_id, p.name
	FROM moons m JOIN planets p ON p.id = m.planet_id`

// MoonRepository implements ports.MoonRepository.
type MoonRepository struct {
	db *DB
}

func NewMoonRepository(db *DB) *MoonRepository {
	return &MoonRepository{db: db}
}

func (r *MoonRepository) Create(ctx context.Context, m *domain.Moon) error {
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO moons (name, diameter_km, orbital_period_days, planet_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		m.Name, m.DiameterKm, m.OrbitalPeriodDays, m.PlanetID,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("planet", m.PlanetID)
		}
		return fmt.Errorf("insert moon: %w", err)
	}
	return nil
}

func (r *MoonRepository) FindByID(ctx context.Context, id int64) (*domain.Moon, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, moonSelect+` WHERE m.id = $1`, id)

	m, err := scanMoon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("moon", id)
		}
		return nil, fmt.Errorf("select moon %d: %w", id, err)
	}
	return m, nil
}

func (r *MoonRepository) List(ctx context.Context, filter ports.MoonFilter) ([]*domain.Moon, error) {
	var (
		where []string
		args  []any
	)
	if filter.PlanetID != 0 {
		args = append(args, filter.PlanetID)
		where = append(where, fmt.Sprintf("m.planet_id = $%d", len(args)))
	}
	if filter.PlanetName != "" {
		args = append(args, filter.PlanetName)
		where = append(where, fmt.Sprintf("LOWER(p.name) = LOWER($%d)", len(args)))
	}

	query := moonSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY m.id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select moons: %w", err)
	}
	defer rows.Close()

	out := []*domain.Moon{}
	for rows.Next() {
		m, err := scanMoon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moon: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MoonRepository) CountByPlanet(ctx context.Context, planetID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM moons WHERE planet_id = $1`, planetID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count moons: %w", err)
	}
	return n, nil
}

func (r *MoonRepository) Update(ctx context.Context, m *domain.Moon) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE moons
		 SET name = $1, diameter_km = $2, orbital_period_days = $3, planet_id = $4
		 WHERE id = $5`,
		m.Name, m.DiameterKm, m.OrbitalPeriodDays, m.PlanetID, m.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("planet", m.PlanetID)
		}
		return fmt.Errorf("update moon %d: %w", m.ID, err)
	}
	return requireAffected(res, domain.NotFound("moon", m.ID))
}

func (r *MoonRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM moons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete moon %d: %w", id, err)
	}
	return requireAffected(res, domain.NotFound("moon", id))
}

func (r *MoonRepository) DeleteByPlanet(ctx context.Context, planetID int64) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM moons WHERE planet_id = $1`, planetID)
	if err != nil {
		return 0, fmt.Errorf("delete moons of planet %d: %w", planetID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func scanMoon(s scanner) (*domain.Moon, error) {
	var m domain.Moon
	if err := s.Scan(&m.ID, &m.Name, &m.DiameterKm, &m.OrbitalPeriodDays, &m.PlanetID, &m.PlanetName); err != nil {
		return nil, err
	}
	return &m, nil
}
