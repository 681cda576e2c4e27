package postgres

import (
	"context"

	"github.com/autlan/recolecta/internal/core/domain"
)

// ContactRepo implements ports.ContactRepository.
type ContactRepo struct {
	db *DB
}

func NewContactRepo(db *DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, c *domain.ContactRequest) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO contact_requests (nombre, email, telefono, asunto, departamento, mensaje, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, c.Name, c.Email, nullIfEmpty(c.Phone), c.Subject, c.Department, c.Message, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt)
	return translate(err)
}

func (r *ContactRepo) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	return affected(r.db.Pool.Exec(ctx, `UPDATE contact_requests SET estado = $2 WHERE id = $1`, id, string(status)))
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.ContactRequest, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, nombre, email, COALESCE(telefono, ''), asunto, departamento, mensaje, estado, created_at
		FROM contact_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ContactRequest{}
	for rows.Next() {
		var c domain.ContactRequest
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Department,
			&c.Message, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
