package postgres

import (
	"context"

	"github.com/autlan/recolecta/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(display_name, ''), COALESCE(email, ''), created_at
		FROM profiles WHERE lower(email) = lower($1)
	`, email).Scan(&p.ID, &p.DisplayName, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Upsert mirrors an identity-provider user, keyed by its subject id.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, display_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET display_name = COALESCE(EXCLUDED.display_name, profiles.display_name),
		    email = COALESCE(EXCLUDED.email, profiles.email)
		RETURNING created_at
	`, p.ID, nullIfEmpty(p.DisplayName), nullIfEmpty(p.Email)).Scan(&p.CreatedAt)
	return translate(err)
}

// RoleRepo implements ports.RoleRepository on top of the has_role SQL function.
type RoleRepo struct {
	db *DB
}

func NewRoleRepo(db *DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, `SELECT public.has_role($1, $2)`, userID, string(role)).Scan(&ok)
	if err != nil {
		return false, translate(err)
	}
	return ok, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.UserRole, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT ur.id, ur.user_id, ur.role, COALESCE(p.email, ''), COALESCE(p.display_name, ''), ur.created_at
		FROM user_roles ur
		LEFT JOIN profiles p ON p.id = ur.user_id
		ORDER BY ur.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.UserRole{}
	for rows.Next() {
		var ur domain.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.Role, &ur.Email, &ur.DisplayName, &ur.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ur)
	}
	return out, rows.Err()
}

func (r *RoleRepo) Create(ctx context.Context, ur *domain.UserRole) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		RETURNING id, created_at
	`, ur.UserID, string(ur.Role)).Scan(&ur.ID, &ur.CreatedAt)
	return translate(err)
}

func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM user_roles WHERE id = $1`, id))
}
