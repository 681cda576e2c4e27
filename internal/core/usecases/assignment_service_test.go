package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
)

func assignmentFixture(truckStatus domain.TruckStatus, driverStatus domain.DriverStatus) *usecases.AssignmentService {
	trucks := &mockTruckRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Truck, error) {
		if id != "t1" {
			return nil, domain.ErrNotFound
		}
		return &domain.Truck{ID: "t1", Plate: "JAL-1", Status: truckStatus}, nil
	}}
	drivers := &mockDriverRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Driver, error) {
		if id != "d1" {
			return nil, domain.ErrNotFound
		}
		return &domain.Driver{ID: "d1", Status: driverStatus}, nil
	}}
	routes := &mockRouteRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Route, error) {
		if id != "r1" {
			return nil, domain.ErrNotFound
		}
		return &domain.Route{ID: "r1"}, nil
	}}
	return usecases.NewAssignmentService(&mockAssignmentRepo{}, trucks, drivers, routes)
}

func newAssignment() *domain.Assignment {
	return &domain.Assignment{
		TruckID: "t1", DriverID: "d1", RouteID: "r1",
		StartDate: "2025-02-01", StartTime: "06:00", EndTime: "09:00",
		Days: []string{"Lunes", "Miércoles"},
	}
}

func TestAssignmentService_Create(t *testing.T) {
	svc := assignmentFixture(domain.TruckActive, domain.DriverActive)
	a := newAssignment()
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != domain.AssignmentActive {
		t.Errorf("expected default status activa, got %q", a.Status)
	}
}

func TestAssignmentService_Create_UnknownReferences(t *testing.T) {
	svc := assignmentFixture(domain.TruckActive, domain.DriverActive)
	a := newAssignment()
	a.TruckID, a.DriverID, a.RouteID = "tx", "dx", "rx"

	err := svc.Create(context.Background(), a)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("expected 3 field errors, got %v", verr.Fields)
	}
}

func TestAssignmentService_Create_InactiveResources(t *testing.T) {
	svc := assignmentFixture(domain.TruckMaintenance, domain.DriverSuspended)

	err := svc.Create(context.Background(), newAssignment())
	if err == nil || !strings.Contains(err.Error(), "truck is not active") || !strings.Contains(err.Error(), "driver is not active") {
		t.Errorf("expected inactive truck and driver errors, got %v", err)
	}

	suspended := newAssignment()
	suspended.Status = domain.AssignmentSuspended
	if err := svc.Create(context.Background(), suspended); err != nil {
		t.Errorf("suspended assignment should accept inactive resources, got %v", err)
	}
}

func TestAssignmentService_Create_RepoError(t *testing.T) {
	trucks := &mockTruckRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Truck, error) {
		return nil, errors.New("connection reset")
	}}
	svc := usecases.NewAssignmentService(&mockAssignmentRepo{}, trucks, &mockDriverRepo{}, &mockRouteRepo{})

	err := svc.Create(context.Background(), newAssignment())
	var verr *domain.ValidationError
	if err == nil || errors.As(err, &verr) {
		t.Errorf("expected infrastructure error, got %v", err)
	}
}

func TestTruckService_ListRejectsUnknownStatus(t *testing.T) {
	svc := usecases.NewTruckService(&mockTruckRepo{})
	if _, err := svc.List(context.Background(), "vendido"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestTruckService_CreateConflict(t *testing.T) {
	repo := &mockTruckRepo{createFn: func(ctx context.Context, tr *domain.Truck) error {
		return domain.ErrConflict
	}}
	svc := usecases.NewTruckService(repo)

	err := svc.Create(context.Background(), &domain.Truck{Plate: "JAL-1", Model: "Kenworth"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
