package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/autlan/recolecta/internal/core/domain"
)

// AssignmentRepo implements ports.AssignmentRepository. Dates and times are
// exchanged with the database as canonical text.
type AssignmentRepo struct {
	db *DB
}

func NewAssignmentRepo(db *DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, camion_id, chofer_id, ruta_id,
	to_char(fecha_inicio, 'YYYY-MM-DD'), COALESCE(to_char(fecha_fin, 'YYYY-MM-DD'), ''),
	to_char(horario_inicio, 'HH24:MI'), to_char(horario_fin, 'HH24:MI'),
	dias_asignados, estado, COALESCE(observaciones, ''), created_at, updated_at`

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.TruckID, &a.DriverID, &a.RouteID,
		&a.StartDate, &a.EndDate, &a.StartTime, &a.EndTime,
		&a.Days, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AssignmentRepo) List(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+assignmentColumns+` FROM asignaciones
		ORDER BY fecha_inicio DESC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM asignaciones WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO asignaciones (camion_id, chofer_id, ruta_id, fecha_inicio, fecha_fin,
			horario_inicio, horario_fin, dias_asignados, estado, observaciones)
		VALUES ($1, $2, $3, $4::date, $5::date, $6::time, $7::time, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, a.TruckID, a.DriverID, a.RouteID, a.StartDate, nullIfEmpty(a.EndDate),
		a.StartTime, a.EndTime, a.Days, string(a.Status), nullIfEmpty(a.Notes),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *AssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE asignaciones
		SET camion_id = $2, chofer_id = $3, ruta_id = $4, fecha_inicio = $5::date, fecha_fin = $6::date,
		    horario_inicio = $7::time, horario_fin = $8::time, dias_asignados = $9, estado = $10,
		    observaciones = $11, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, a.ID, a.TruckID, a.DriverID, a.RouteID, a.StartDate, nullIfEmpty(a.EndDate),
		a.StartTime, a.EndTime, a.Days, string(a.Status), nullIfEmpty(a.Notes),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM asignaciones WHERE id = $1`, id))
}
