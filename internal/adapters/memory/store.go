// Package memory implements every repository port in process memory. It
// backs the api when database.driver is "memory" and in handler tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autlan/recolecta/internal/core/domain"
)

// table keeps rows by id and remembers insertion order. Callers hold Store.mu.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	return true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) exists(match func(T) bool) bool {
	for _, v := range t.rows {
		if match(v) {
			return true
		}
	}
	return false
}

// Store holds every table behind one lock so cross-table checks, such as
// refusing to delete a truck that an assignment still references, are atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	routes        *table[domain.Route]
	neighborhoods *table[domain.Neighborhood]
	trucks        *table[domain.Truck]
	drivers       *table[domain.Driver]
	assignments   *table[domain.Assignment]
	articles      *table[domain.Article]
	profiles      *table[domain.Profile]
	roles         *table[domain.UserRole]
	contacts      *table[domain.ContactRequest]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		routes:        newTable[domain.Route](),
		neighborhoods: newTable[domain.Neighborhood](),
		trucks:        newTable[domain.Truck](),
		drivers:       newTable[domain.Driver](),
		assignments:   newTable[domain.Assignment](),
		articles:      newTable[domain.Article](),
		profiles:      newTable[domain.Profile](),
		roles:         newTable[domain.UserRole](),
		contacts:      newTable[domain.ContactRequest](),
	}
}

// Ping always succeeds; it lets the store stand in for a database in
// readiness checks.
func (s *Store) Ping(ctx context.Context) error { return nil }

func newID() string { return uuid.NewString() }

func (s *Store) stamp() time.Time { return s.now().UTC() }

func cloneRoute(r domain.Route) domain.Route {
	r.Days = slices.Clone(r.Days)
	r.Path = slices.Clone(r.Path)
	r.Stops = slices.Clone(r.Stops)
	return r
}

func cloneAssignment(a domain.Assignment) domain.Assignment {
	a.Days = slices.Clone(a.Days)
	return a
}

func cloneArticle(a domain.Article) domain.Article {
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		a.PublishedAt = &t
	}
	return a
}

func cloneTruck(t domain.Truck) domain.Truck {
	if t.Year != nil {
		y := *t.Year
		t.Year = &y
	}
	return t
}
