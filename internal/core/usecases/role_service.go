package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
)

// RoleService answers and manages role grants.
type RoleService struct {
	roles    ports.RoleRepository
	profiles ports.ProfileRepository
}

func NewRoleService(roles ports.RoleRepository, profiles ports.ProfileRepository) *RoleService {
	return &RoleService{roles: roles, profiles: profiles}
}

// HasRole reports whether userID holds role.
func (s *RoleService) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.roles.HasRole(ctx, userID, role)
}

// IsAdmin reports whether userID holds the admin role.
func (s *RoleService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.HasRole(ctx, userID, domain.RoleAdmin)
}

// List returns every grant with the user's email and display name.
func (s *RoleService) List(ctx context.Context) ([]domain.UserRole, error) {
	return s.roles.List(ctx)
}

// AssignByEmail grants role to the user whose profile has email. An unknown
// email returns domain.ErrNotFound; an existing grant returns domain.ErrConflict.
func (s *RoleService) AssignByEmail(ctx context.Context, email string, role domain.Role) (*domain.UserRole, error) {
	v := &domain.ValidationError{}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		v.Add("email", "required")
	}
	if !role.Valid() {
		v.Add("role", "must be one of admin, moderator, user")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", email, err)
	}

	has, err := s.roles.HasRole(ctx, profile.ID, role)
	if err != nil {
		return nil, fmt.Errorf("check role: %w", err)
	}
	if has {
		return nil, fmt.Errorf("role %s for %s: %w", role, email, domain.ErrConflict)
	}

	grant := &domain.UserRole{
		UserID:      profile.ID,
		Role:        role,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
	}
	if err := s.roles.Create(ctx, grant); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return grant, nil
}

// RegisterProfile mirrors the identity-provider user so role grants can be
// assigned by email.
func (s *RoleService) RegisterProfile(ctx context.Context, p *domain.Profile) error {
	if p.ID == "" {
		return domain.ErrUnauthorized
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return s.profiles.Upsert(ctx, p)
}

// Revoke removes a grant by id.
func (s *RoleService) Revoke(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}
