package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/autlan/recolecta/internal/core/domain"
)

// TruckRepo implements ports.TruckRepository.
type TruckRepo struct {
	db *DB
}

func NewTruckRepo(db *DB) *TruckRepo { return &TruckRepo{db: db} }

const truckColumns = `id, placa, modelo, anio, COALESCE(capacidad, ''), estado, created_at, updated_at`

func scanTruck(row pgx.Row) (domain.Truck, error) {
	var t domain.Truck
	err := row.Scan(&t.ID, &t.Plate, &t.Model, &t.Year, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TruckRepo) List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+truckColumns+` FROM camiones
		WHERE $1 = '' OR estado::text = $1
		ORDER BY placa
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Truck{}
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TruckRepo) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	t, err := scanTruck(r.db.Pool.QueryRow(ctx, `SELECT `+truckColumns+` FROM camiones WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TruckRepo) Create(ctx context.Context, t *domain.Truck) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO camiones (placa, modelo, anio, capacidad, estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, t.Plate, t.Model, t.Year, nullIfEmpty(t.Capacity), string(t.Status)).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

func (r *TruckRepo) Update(ctx context.Context, t *domain.Truck) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE camiones
		SET placa = $2, modelo = $3, anio = $4, capacidad = $5, estado = $6, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, t.ID, t.Plate, t.Model, t.Year, nullIfEmpty(t.Capacity), string(t.Status)).Scan(&t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

func (r *TruckRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM camiones WHERE id = $1`, id))
}

// DriverRepo implements ports.DriverRepository.
type DriverRepo struct {
	db *DB
}

func NewDriverRepo(db *DB) *DriverRepo { return &DriverRepo{db: db} }

const driverColumns = `id, nombre, apellido, cedula, COALESCE(telefono, ''), licencia,
	COALESCE(to_char(fecha_vencimiento_licencia, 'YYYY-MM-DD'), ''), estado, created_at, updated_at`

func scanDriver(row pgx.Row) (domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.NationalID, &d.Phone, &d.License,
		&d.LicenseExpires, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *DriverRepo) List(ctx context.Context, status domain.DriverStatus) ([]domain.Driver, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+driverColumns+` FROM choferes
		WHERE $1 = '' OR estado::text = $1
		ORDER BY apellido, nombre
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DriverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	d, err := scanDriver(r.db.Pool.QueryRow(ctx, `SELECT `+driverColumns+` FROM choferes WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *DriverRepo) Create(ctx context.Context, d *domain.Driver) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO choferes (nombre, apellido, cedula, telefono, licencia, fecha_vencimiento_licencia, estado)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		RETURNING id, created_at, updated_at
	`, d.FirstName, d.LastName, d.NationalID, nullIfEmpty(d.Phone), d.License,
		nullIfEmpty(d.LicenseExpires), string(d.Status)).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return translate(err)
}

func (r *DriverRepo) Update(ctx context.Context, d *domain.Driver) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE choferes
		SET nombre = $2, apellido = $3, cedula = $4, telefono = $5, licencia = $6,
		    fecha_vencimiento_licencia = $7::date, estado = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, d.ID, d.FirstName, d.LastName, d.NationalID, nullIfEmpty(d.Phone), d.License,
		nullIfEmpty(d.LicenseExpires), string(d.Status)).Scan(&d.CreatedAt, &d.UpdatedAt)
	return translate(err)
}

func (r *DriverRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM choferes WHERE id = $1`, id))
}
