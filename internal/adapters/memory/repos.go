package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/autlan/recolecta/internal/core/domain"
)

// newestFirst orders by descending time. Lists reverse insertion order
// before sorting stably, so rows stamped in the same instant also come out
// newest first.
func newestFirst(a, b time.Time) int { return b.Compare(a) }

// RouteRepo implements ports.RouteRepository.
type RouteRepo struct{ s *Store }

func (s *Store) Routes() *RouteRepo { return &RouteRepo{s: s} }

func (r *RouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Route, 0, len(r.s.routes.order))
	for _, rt := range r.s.routes.all() {
		out = append(out, cloneRoute(rt))
	}
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.Route) int { return newestFirst(a.CreatedAt, b.CreatedAt) })
	return out, nil
}

func (r *RouteRepo) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rt, ok := r.s.routes.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	rt = cloneRoute(rt)
	return &rt, nil
}

func (r *RouteRepo) Create(ctx context.Context, rt *domain.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.stamp()
	rt.ID, rt.CreatedAt, rt.UpdatedAt = newID(), now, now
	r.s.routes.put(rt.ID, cloneRoute(*rt))
	return nil
}

func (r *RouteRepo) Update(ctx context.Context, rt *domain.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.routes.get(rt.ID)
	if !ok {
		return domain.ErrNotFound
	}
	rt.CreatedAt, rt.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.routes.put(rt.ID, cloneRoute(*rt))
	return nil
}

func (r *RouteRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routes.get(id); !ok {
		return domain.ErrNotFound
	}
	if r.s.assignments.exists(func(a domain.Assignment) bool { return a.RouteID == id }) {
		return fmt.Errorf("route %s has assignments: %w", id, domain.ErrConflict)
	}
	r.s.routes.del(id)
	return nil
}

// NeighborhoodRepo implements ports.NeighborhoodRepository.
type NeighborhoodRepo struct{ s *Store }

func (s *Store) Neighborhoods() *NeighborhoodRepo { return &NeighborhoodRepo{s: s} }

func (r *NeighborhoodRepo) List(ctx context.Context) ([]domain.Neighborhood, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.neighborhoods.all()
	slices.SortFunc(out, func(a, b domain.Neighborhood) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *NeighborhoodRepo) GetByID(ctx context.Context, id string) (*domain.Neighborhood, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.neighborhoods.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (r *NeighborhoodRepo) nameTaken(n *domain.Neighborhood) bool {
	return r.s.neighborhoods.exists(func(o domain.Neighborhood) bool { return o.ID != n.ID && o.Name == n.Name })
}

func (r *NeighborhoodRepo) Create(ctx context.Context, n *domain.Neighborhood) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = ""
	if r.nameTaken(n) {
		return fmt.Errorf("colonia %q: %w", n.Name, domain.ErrConflict)
	}
	now := r.s.stamp()
	n.ID, n.CreatedAt, n.UpdatedAt = newID(), now, now
	r.s.neighborhoods.put(n.ID, *n)
	return nil
}

func (r *NeighborhoodRepo) Update(ctx context.Context, n *domain.Neighborhood) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.neighborhoods.get(n.ID)
	if !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(n) {
		return fmt.Errorf("colonia %q: %w", n.Name, domain.ErrConflict)
	}
	n.CreatedAt, n.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.neighborhoods.put(n.ID, *n)
	return nil
}

func (r *NeighborhoodRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.neighborhoods.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

// TruckRepo implements ports.TruckRepository.
type TruckRepo struct{ s *Store }

func (s *Store) Trucks() *TruckRepo { return &TruckRepo{s: s} }

func (r *TruckRepo) List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Truck{}
	for _, t := range r.s.trucks.all() {
		if status == "" || t.Status == status {
			out = append(out, cloneTruck(t))
		}
	}
	slices.SortFunc(out, func(a, b domain.Truck) int { return cmp.Compare(a.Plate, b.Plate) })
	return out, nil
}

func (r *TruckRepo) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.trucks.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	t = cloneTruck(t)
	return &t, nil
}

func (r *TruckRepo) plateTaken(t *domain.Truck) bool {
	return r.s.trucks.exists(func(o domain.Truck) bool { return o.ID != t.ID && o.Plate == t.Plate })
}

func (r *TruckRepo) Create(ctx context.Context, t *domain.Truck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = ""
	if r.plateTaken(t) {
		return fmt.Errorf("placa %q: %w", t.Plate, domain.ErrConflict)
	}
	now := r.s.stamp()
	t.ID, t.CreatedAt, t.UpdatedAt = newID(), now, now
	r.s.trucks.put(t.ID, cloneTruck(*t))
	return nil
}

func (r *TruckRepo) Update(ctx context.Context, t *domain.Truck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.trucks.get(t.ID)
	if !ok {
		return domain.ErrNotFound
	}
	if r.plateTaken(t) {
		return fmt.Errorf("placa %q: %w", t.Plate, domain.ErrConflict)
	}
	t.CreatedAt, t.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.trucks.put(t.ID, cloneTruck(*t))
	return nil
}

func (r *TruckRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trucks.get(id); !ok {
		return domain.ErrNotFound
	}
	if r.s.assignments.exists(func(a domain.Assignment) bool { return a.TruckID == id }) {
		return fmt.Errorf("truck %s has assignments: %w", id, domain.ErrConflict)
	}
	r.s.trucks.del(id)
	return nil
}

// DriverRepo implements ports.DriverRepository.
type DriverRepo struct{ s *Store }

func (s *Store) Drivers() *DriverRepo { return &DriverRepo{s: s} }

func (r *DriverRepo) List(ctx context.Context, status domain.DriverStatus) ([]domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Driver{}
	for _, d := range r.s.drivers.all() {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b domain.Driver) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName))
	})
	return out, nil
}

func (r *DriverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.drivers.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r *DriverRepo) idTaken(d *domain.Driver) bool {
	return r.s.drivers.exists(func(o domain.Driver) bool { return o.ID != d.ID && o.NationalID == d.NationalID })
}

func (r *DriverRepo) Create(ctx context.Context, d *domain.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = ""
	if r.idTaken(d) {
		return fmt.Errorf("cedula %q: %w", d.NationalID, domain.ErrConflict)
	}
	now := r.s.stamp()
	d.ID, d.CreatedAt, d.UpdatedAt = newID(), now, now
	r.s.drivers.put(d.ID, *d)
	return nil
}

func (r *DriverRepo) Update(ctx context.Context, d *domain.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.drivers.get(d.ID)
	if !ok {
		return domain.ErrNotFound
	}
	if r.idTaken(d) {
		return fmt.Errorf("cedula %q: %w", d.NationalID, domain.ErrConflict)
	}
	d.CreatedAt, d.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.drivers.put(d.ID, *d)
	return nil
}

func (r *DriverRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.drivers.get(id); !ok {
		return domain.ErrNotFound
	}
	if r.s.assignments.exists(func(a domain.Assignment) bool { return a.DriverID == id }) {
		return fmt.Errorf("driver %s has assignments: %w", id, domain.ErrConflict)
	}
	r.s.drivers.del(id)
	return nil
}

// AssignmentRepo implements ports.AssignmentRepository.
type AssignmentRepo struct{ s *Store }

func (s *Store) Assignments() *AssignmentRepo { return &AssignmentRepo{s: s} }

func (r *AssignmentRepo) List(ctx context.Context) ([]domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Assignment, 0, len(r.s.assignments.order))
	for _, a := range r.s.assignments.all() {
		out = append(out, cloneAssignment(a))
	}
	// YYYY-MM-DD sorts lexically.
	slices.SortStableFunc(out, func(a, b domain.Assignment) int {
		return cmp.Or(cmp.Compare(b.StartDate, a.StartDate), newestFirst(a.CreatedAt, b.CreatedAt))
	})
	return out, nil
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.assignments.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	a = cloneAssignment(a)
	return &a, nil
}

func (r *AssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.stamp()
	a.ID, a.CreatedAt, a.UpdatedAt = newID(), now, now
	r.s.assignments.put(a.ID, cloneAssignment(*a))
	return nil
}

func (r *AssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.assignments.get(a.ID)
	if !ok {
		return domain.ErrNotFound
	}
	a.CreatedAt, a.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.assignments.put(a.ID, cloneAssignment(*a))
	return nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.assignments.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

// ArticleRepo implements ports.ArticleRepository.
type ArticleRepo struct{ s *Store }

func (s *Store) Articles() *ArticleRepo { return &ArticleRepo{s: s} }

func publicationTime(a domain.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

func (r *ArticleRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Article{}
	for _, a := range r.s.articles.all() {
		if !publishedOnly || a.Published {
			out = append(out, cloneArticle(a))
		}
	}
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.Article) int {
		return newestFirst(publicationTime(a), publicationTime(b))
	})
	return out, nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.articles.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	a = cloneArticle(a)
	return &a, nil
}

func (r *ArticleRepo) Create(ctx context.Context, a *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.stamp()
	a.ID, a.CreatedAt, a.UpdatedAt = newID(), now, now
	r.s.articles.put(a.ID, cloneArticle(*a))
	return nil
}

func (r *ArticleRepo) Update(ctx context.Context, a *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.articles.get(a.ID)
	if !ok {
		return domain.ErrNotFound
	}
	a.CreatedAt, a.UpdatedAt = old.CreatedAt, r.s.stamp()
	r.s.articles.put(a.ID, cloneArticle(*a))
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.articles.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

// ProfileRepo implements ports.ProfileRepository.
type ProfileRepo struct{ s *Store }

func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles.all() {
		if p.Email != "" && strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.profiles.get(p.ID); ok {
		if p.DisplayName == "" {
			p.DisplayName = old.DisplayName
		}
		if p.Email == "" {
			p.Email = old.Email
		}
		p.CreatedAt = old.CreatedAt
	} else {
		p.CreatedAt = r.s.stamp()
	}
	r.s.profiles.put(p.ID, *p)
	return nil
}

// RoleRepo implements ports.RoleRepository.
type RoleRepo struct{ s *Store }

func (s *Store) Roles() *RoleRepo { return &RoleRepo{s: s} }

func (r *RoleRepo) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.roles.exists(func(ur domain.UserRole) bool { return ur.UserID == userID && ur.Role == role }), nil
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.UserRole, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.roles.all()
	for i := range out {
		if p, ok := r.s.profiles.get(out[i].UserID); ok {
			out[i].Email, out[i].DisplayName = p.Email, p.DisplayName
		}
	}
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.UserRole) int { return newestFirst(a.CreatedAt, b.CreatedAt) })
	return out, nil
}

func (r *RoleRepo) Create(ctx context.Context, ur *domain.UserRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.roles.exists(func(o domain.UserRole) bool { return o.UserID == ur.UserID && o.Role == ur.Role }) {
		return fmt.Errorf("role %s for %s: %w", ur.Role, ur.UserID, domain.ErrConflict)
	}
	ur.ID, ur.CreatedAt = newID(), r.s.stamp()
	r.s.roles.put(ur.ID, *ur)
	return nil
}

func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.roles.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

// ContactRepo implements ports.ContactRepository.
type ContactRepo struct{ s *Store }

func (s *Store) Contacts() *ContactRepo { return &ContactRepo{s: s} }

func (r *ContactRepo) Create(ctx context.Context, c *domain.ContactRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID, c.CreatedAt = newID(), r.s.stamp()
	r.s.contacts.put(c.ID, *c)
	return nil
}

func (r *ContactRepo) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contacts.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	r.s.contacts.put(id, c)
	return nil
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.ContactRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.contacts.all()
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.ContactRequest) int { return newestFirst(a.CreatedAt, b.CreatedAt) })
	return out, nil
}
