package ports

import (
	"context"

	"github.com/autlan/recolecta/internal/core/domain"
)

// Create methods assign ID and timestamps on the passed entity. Update and
// Delete return domain.ErrNotFound for unknown ids, and writes that break a
// uniqueness rule return domain.ErrConflict.

// RouteRepository persists collection routes.
type RouteRepository interface {
	// List returns every route, newest first.
	List(ctx context.Context) ([]domain.Route, error)
	GetByID(ctx context.Context, id string) (*domain.Route, error)
	Create(ctx context.Context, route *domain.Route) error
	Update(ctx context.Context, route *domain.Route) error
	Delete(ctx context.Context, id string) error
}

// NeighborhoodRepository persists colonias.
type NeighborhoodRepository interface {
	// List returns every neighborhood ordered by name.
	List(ctx context.Context) ([]domain.Neighborhood, error)
	GetByID(ctx context.Context, id string) (*domain.Neighborhood, error)
	Create(ctx context.Context, n *domain.Neighborhood) error
	Update(ctx context.Context, n *domain.Neighborhood) error
	Delete(ctx context.Context, id string) error
}

// TruckRepository persists the truck fleet.
type TruckRepository interface {
	// List returns trucks ordered by plate, filtered by status when non-empty.
	List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error)
	GetByID(ctx context.Context, id string) (*domain.Truck, error)
	Create(ctx context.Context, t *domain.Truck) error
	Update(ctx context.Context, t *domain.Truck) error
	Delete(ctx context.Context, id string) error
}

// DriverRepository persists drivers.
type DriverRepository interface {
	// List returns drivers ordered by last name, filtered by status when non-empty.
	List(ctx context.Context, status domain.DriverStatus) ([]domain.Driver, error)
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	Create(ctx context.Context, d *domain.Driver) error
	Update(ctx context.Context, d *domain.Driver) error
	Delete(ctx context.Context, id string) error
}

// AssignmentRepository persists truck/driver/route assignments.
type AssignmentRepository interface {
	// List returns assignments, most recent start date first.
	List(ctx context.Context) ([]domain.Assignment, error)
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	Create(ctx context.Context, a *domain.Assignment) error
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
}

// ArticleRepository persists articles.
type ArticleRepository interface {
	// List returns articles, newest first; only published ones when publishedOnly is set.
	List(ctx context.Context, publishedOnly bool) ([]domain.Article, error)
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Create(ctx context.Context, a *domain.Article) error
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository reads user profiles mirrored from the identity provider.
type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
}

// RoleRepository persists role grants.
type RoleRepository interface {
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)
	// List returns every grant joined with the user's profile.
	List(ctx context.Context) ([]domain.UserRole, error)
	Create(ctx context.Context, r *domain.UserRole) error
	Delete(ctx context.Context, id string) error
}

// ContactRepository persists contact requests.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.ContactRequest) error
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error
	// List returns requests, newest first.
	List(ctx context.Context) ([]domain.ContactRequest, error)
}
