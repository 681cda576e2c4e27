package usecases

import (
	"context"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
)

// NeighborhoodService manages colonias.
type NeighborhoodService struct {
	repo ports.NeighborhoodRepository
}

func NewNeighborhoodService(repo ports.NeighborhoodRepository) *NeighborhoodService {
	return &NeighborhoodService{repo: repo}
}

func (s *NeighborhoodService) List(ctx context.Context) ([]domain.Neighborhood, error) {
	return s.repo.List(ctx)
}

func (s *NeighborhoodService) GetByID(ctx context.Context, id string) (*domain.Neighborhood, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a neighborhood. A duplicate name returns domain.ErrConflict.
func (s *NeighborhoodService) Create(ctx context.Context, n *domain.Neighborhood) error {
	if err := n.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, n)
}

func (s *NeighborhoodService) Update(ctx context.Context, n *domain.Neighborhood) error {
	if err := n.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, n)
}

func (s *NeighborhoodService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
