package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
)

// AssignmentService binds trucks and drivers to routes.
type AssignmentService struct {
	assignments ports.AssignmentRepository
	trucks      ports.TruckRepository
	drivers     ports.DriverRepository
	routes      ports.RouteRepository
}

func NewAssignmentService(
	assignments ports.AssignmentRepository,
	trucks ports.TruckRepository,
	drivers ports.DriverRepository,
	routes ports.RouteRepository,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		trucks:      trucks,
		drivers:     drivers,
		routes:      routes,
	}
}

func (s *AssignmentService) List(ctx context.Context) ([]domain.Assignment, error) {
	return s.assignments.List(ctx)
}

func (s *AssignmentService) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	return s.assignments.GetByID(ctx, id)
}

// Create validates the assignment and its references, then stores it.
func (s *AssignmentService) Create(ctx context.Context, a *domain.Assignment) error {
	if err := s.validate(ctx, a); err != nil {
		return err
	}
	return s.assignments.Create(ctx, a)
}

// Update validates the assignment and its references, then replaces it.
func (s *AssignmentService) Update(ctx context.Context, a *domain.Assignment) error {
	if err := s.validate(ctx, a); err != nil {
		return err
	}
	return s.assignments.Update(ctx, a)
}

func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	return s.assignments.Delete(ctx, id)
}

// validate checks the assignment fields, then that the truck, driver and
// route exist. An active assignment needs an active truck and driver.
func (s *AssignmentService) validate(ctx context.Context, a *domain.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	v := &domain.ValidationError{}

	truck, err := s.trucks.GetByID(ctx, a.TruckID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v.Add("camion_id", "unknown truck")
	case err != nil:
		return fmt.Errorf("get truck: %w", err)
	case a.Status == domain.AssignmentActive && truck.Status != domain.TruckActive:
		v.Add("camion_id", "truck is not active")
	}

	driver, err := s.drivers.GetByID(ctx, a.DriverID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v.Add("chofer_id", "unknown driver")
	case err != nil:
		return fmt.Errorf("get driver: %w", err)
	case a.Status == domain.AssignmentActive && driver.Status != domain.DriverActive:
		v.Add("chofer_id", "driver is not active")
	}

	_, err = s.routes.GetByID(ctx, a.RouteID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v.Add("ruta_id", "unknown route")
	case err != nil:
		return fmt.Errorf("get route: %w", err)
	}

	return v.Err()
}
