package usecases

import (
	"context"
	"time"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
)

// TruckService manages the truck fleet.
type TruckService struct {
	repo ports.TruckRepository
	now  func() time.Time
}

func NewTruckService(repo ports.TruckRepository) *TruckService {
	return &TruckService{repo: repo, now: time.Now}
}

// List returns trucks, filtered by status when it is non-empty.
func (s *TruckService) List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	if status != "" && !status.Valid() {
		v := &domain.ValidationError{}
		v.Add("estado", "unknown status")
		return nil, v
	}
	return s.repo.List(ctx, status)
}

func (s *TruckService) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a truck. A duplicate plate returns domain.ErrConflict.
func (s *TruckService) Create(ctx context.Context, t *domain.Truck) error {
	if err := t.Validate(s.now()); err != nil {
		return err
	}
	return s.repo.Create(ctx, t)
}

func (s *TruckService) Update(ctx context.Context, t *domain.Truck) error {
	if err := t.Validate(s.now()); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

func (s *TruckService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DriverService manages drivers.
type DriverService struct {
	repo ports.DriverRepository
}

func NewDriverService(repo ports.DriverRepository) *DriverService {
	return &DriverService{repo: repo}
}

// List returns drivers, filtered by status when it is non-empty.
func (s *DriverService) List(ctx context.Context, status domain.DriverStatus) ([]domain.Driver, error) {
	if status != "" && !status.Valid() {
		v := &domain.ValidationError{}
		v.Add("estado", "unknown status")
		return nil, v
	}
	return s.repo.List(ctx, status)
}

func (s *DriverService) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a driver. A duplicate cedula returns domain.ErrConflict.
func (s *DriverService) Create(ctx context.Context, d *domain.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

func (s *DriverService) Update(ctx context.Context, d *domain.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *DriverService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
