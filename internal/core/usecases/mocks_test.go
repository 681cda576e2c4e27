package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/autlan/recolecta/internal/core/domain"
)

// --- Mock RouteRepository ---

type mockRouteRepo struct {
	listFn    func(ctx context.Context) ([]domain.Route, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Route, error)
	createFn  func(ctx context.Context, r *domain.Route) error
	updateFn  func(ctx context.Context, r *domain.Route) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockRouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRouteRepo) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRouteRepo) Create(ctx context.Context, r *domain.Route) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "new-route"
	return nil
}

func (m *mockRouteRepo) Update(ctx context.Context, r *domain.Route) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, r)
	}
	return nil
}

func (m *mockRouteRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock TruckRepository ---

type mockTruckRepo struct {
	listFn    func(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Truck, error)
	createFn  func(ctx context.Context, t *domain.Truck) error
}

func (m *mockTruckRepo) List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return nil, nil
}

func (m *mockTruckRepo) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTruckRepo) Create(ctx context.Context, t *domain.Truck) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTruckRepo) Update(ctx context.Context, t *domain.Truck) error { return nil }
func (m *mockTruckRepo) Delete(ctx context.Context, id string) error       { return nil }

// --- Mock DriverRepository ---

type mockDriverRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Driver, error)
}

func (m *mockDriverRepo) List(ctx context.Context, status domain.DriverStatus) ([]domain.Driver, error) {
	return nil, nil
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDriverRepo) Create(ctx context.Context, d *domain.Driver) error { return nil }
func (m *mockDriverRepo) Update(ctx context.Context, d *domain.Driver) error { return nil }
func (m *mockDriverRepo) Delete(ctx context.Context, id string) error       { return nil }

// --- Mock AssignmentRepository ---

type mockAssignmentRepo struct {
	createFn func(ctx context.Context, a *domain.Assignment) error
}

func (m *mockAssignmentRepo) List(ctx context.Context) ([]domain.Assignment, error) { return nil, nil }

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error { return nil }
func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error           { return nil }

// --- Mock ArticleRepository ---

type mockArticleRepo struct {
	listFn    func(ctx context.Context, publishedOnly bool) ([]domain.Article, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Article, error)
	createFn  func(ctx context.Context, a *domain.Article) error
}

func (m *mockArticleRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	if m.listFn != nil {
		return m.listFn(ctx, publishedOnly)
	}
	return nil, nil
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleRepo) Create(ctx context.Context, a *domain.Article) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockArticleRepo) Update(ctx context.Context, a *domain.Article) error { return nil }
func (m *mockArticleRepo) Delete(ctx context.Context, id string) error         { return nil }

// --- Mock ProfileRepository / RoleRepository ---

type mockProfileRepo struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.Profile, error)
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error { return nil }

type mockRoleRepo struct {
	hasRoleFn func(ctx context.Context, userID string, role domain.Role) (bool, error)
	createFn  func(ctx context.Context, r *domain.UserRole) error
}

func (m *mockRoleRepo) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, userID, role)
	}
	return false, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]domain.UserRole, error) { return nil, nil }

func (m *mockRoleRepo) Create(ctx context.Context, r *domain.UserRole) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "grant-1"
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id string) error { return nil }

// --- Mock ContactRepository ---

type mockContactRepo struct {
	mu       sync.Mutex
	created  []domain.ContactRequest
	statuses map[string]domain.ContactStatus
	createFn func(ctx context.Context, c *domain.ContactRequest) error
}

func (m *mockContactRepo) Create(ctx context.Context, c *domain.ContactRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = "contact-" + string(rune('a'+len(m.created)))
	m.created = append(m.created, *c)
	return nil
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses == nil {
		m.statuses = make(map[string]domain.ContactStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockContactRepo) List(ctx context.Context) ([]domain.ContactRequest, error) {
	return m.created, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deletes = append(m.deletes, key)
	return nil
}

// --- Mock EventPublisher / ContactWorkflowStarter ---

type mockPublisher struct {
	mu        sync.Mutex
	changes   []domain.RouteChange
	contacts  []string
	contactFn func(ctx context.Context, req *domain.ContactRequest) error
}

func (m *mockPublisher) PublishRouteChanged(ctx context.Context, change domain.RouteChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, change)
	return nil
}

func (m *mockPublisher) PublishContactRequest(ctx context.Context, req *domain.ContactRequest) error {
	if m.contactFn != nil {
		return m.contactFn(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, req.ID)
	return nil
}

type mockWorkflows struct {
	started []string
}

func (m *mockWorkflows) StartContactWorkflow(ctx context.Context, req *domain.ContactRequest) error {
	m.started = append(m.started, req.ID)
	return nil
}
