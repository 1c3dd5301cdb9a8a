package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayspot/stayspot/internal/domain"
)

type CityRepository interface {
	SearchByName(ctx context.Context, pattern string) ([]domain.City, error)
	ListByProvince(ctx context.Context, provinceID int64) ([]domain.City, error)
	ListProvinces(ctx context.Context) ([]domain.Province, error)
}

type cityRepository struct {
	pool *pgxpool.Pool
}

func NewCityRepository(pool *pgxpool.Pool) CityRepository {
	return &cityRepository{pool: pool}
}

const cityCols = `c.id, c.name, c.province_id, p.id, p.name, p.abbreviation`

func (r *cityRepository) SearchByName(ctx context.Context, pattern string) ([]domain.City, error) {
	const q = `
		SELECT ` + cityCols + `
		FROM cities c
		JOIN provinces p ON p.id = c.province_id
		WHERE c.name ILIKE $1
		ORDER BY c.name ASC`

	return r.queryCities(ctx, q, pattern)
}

func (r *cityRepository) ListByProvince(ctx context.Context, provinceID int64) ([]domain.City, error) {
	const q = `
		SELECT ` + cityCols + `
		FROM cities c
		JOIN provinces p ON p.id = c.province_id
		WHERE c.province_id = $1
		ORDER BY c.name ASC`

	return r.queryCities(ctx, q, provinceID)
}

func (r *cityRepository) queryCities(ctx context.Context, q string, args ...any) ([]domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var c domain.City
		var p domain.Province
		if err := rows.Scan(&c.ID, &c.Name, &c.ProvinceID, &p.ID, &p.Name, &p.Abbreviation); err != nil {
			return nil, err
		}
		c.Province = &p
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *cityRepository) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	const q = `SELECT id, name, abbreviation FROM provinces ORDER BY name ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var provinces []domain.Province
	for rows.Next() {
		var p domain.Province
		if err := rows.Scan(&p.ID, &p.Name, &p.Abbreviation); err != nil {
			return nil, err
		}
		provinces = append(provinces, p)
	}
	return provinces, rows.Err()
}
