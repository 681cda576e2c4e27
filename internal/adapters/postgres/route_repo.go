package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
)

// RouteRepo implements ports.RouteRepository. Geometry is stored as jsonb
// and decoded through domain.Path and domain.Stops, so legacy encodings
// already in the table are tolerated on read.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

const routeColumns = `id, colonia, horario, dias, tipo, ruta, puntos_especificos,
	COALESCE(descripcion, ''), created_at, updated_at`

func scanRoute(row pgx.Row) (domain.Route, error) {
	var (
		rt          domain.Route
		path, stops []byte
	)
	if err := row.Scan(&rt.ID, &rt.Neighborhood, &rt.Schedule, &rt.Days, &rt.WasteType,
		&path, &stops, &rt.Description, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return rt, err
	}
	if len(path) > 0 {
		rt.Path = domain.Path(geospatial.DecodePath(path))
	}
	if len(stops) > 0 {
		rt.Stops = domain.StopsFromPairs(geospatial.DecodeStops(stops))
	}
	return rt, nil
}

func encodeGeometry(rt *domain.Route) (path string, stops *string, err error) {
	p, err := json.Marshal(rt.Path)
	if err != nil {
		return "", nil, fmt.Errorf("encode ruta: %w", err)
	}
	if len(rt.Stops) == 0 {
		return string(p), nil, nil
	}
	s, err := json.Marshal(rt.Stops)
	if err != nil {
		return "", nil, fmt.Errorf("encode puntos_especificos: %w", err)
	}
	str := string(s)
	return string(p), &str, nil
}

func (r *RouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []domain.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func (r *RouteRepo) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	rt, err := scanRoute(r.db.Pool.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

func (r *RouteRepo) Create(ctx context.Context, rt *domain.Route) error {
	path, stops, err := encodeGeometry(rt)
	if err != nil {
		return err
	}
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO routes (colonia, horario, dias, tipo, ruta, puntos_especificos, descripcion)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7)
		RETURNING id, created_at, updated_at
	`, rt.Neighborhood, rt.Schedule, rt.Days, string(rt.WasteType), path, stops, nullIfEmpty(rt.Description),
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	return translate(err)
}

func (r *RouteRepo) Update(ctx context.Context, rt *domain.Route) error {
	path, stops, err := encodeGeometry(rt)
	if err != nil {
		return err
	}
	err = r.db.Pool.QueryRow(ctx, `
		UPDATE routes
		SET colonia = $2, horario = $3, dias = $4, tipo = $5, ruta = $6::jsonb,
		    puntos_especificos = $7::jsonb, descripcion = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, rt.ID, rt.Neighborhood, rt.Schedule, rt.Days, string(rt.WasteType), path, stops, nullIfEmpty(rt.Description),
	).Scan(&rt.CreatedAt, &rt.UpdatedAt)
	return translate(err)
}

func (r *RouteRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id))
}

// NeighborhoodRepo implements ports.NeighborhoodRepository.
type NeighborhoodRepo struct {
	db *DB
}

func NewNeighborhoodRepo(db *DB) *NeighborhoodRepo { return &NeighborhoodRepo{db: db} }

func (r *NeighborhoodRepo) List(ctx context.Context) ([]domain.Neighborhood, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM colonias ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Neighborhood{}
	for rows.Next() {
		var n domain.Neighborhood
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NeighborhoodRepo) GetByID(ctx context.Context, id string) (*domain.Neighborhood, error) {
	var n domain.Neighborhood
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM colonias WHERE id = $1
	`, id).Scan(&n.ID, &n.Name, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *NeighborhoodRepo) Create(ctx context.Context, n *domain.Neighborhood) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO colonias (name, description) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, n.Name, nullIfEmpty(n.Description)).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return translate(err)
}

func (r *NeighborhoodRepo) Update(ctx context.Context, n *domain.Neighborhood) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE colonias SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, n.ID, n.Name, nullIfEmpty(n.Description)).Scan(&n.CreatedAt, &n.UpdatedAt)
	return translate(err)
}

func (r *NeighborhoodRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM colonias WHERE id = $1`, id))
}
