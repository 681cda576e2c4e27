package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
	"github.com/autlan/recolecta/internal/mapview"
	"github.com/autlan/recolecta/internal/pkg/metrics"
	"github.com/autlan/recolecta/internal/pkg/telemetry"
)

const (
	cacheKeyRoutesAll = "routes:all"
	routesCacheTTL    = 300
)

// RouteFilter narrows a route listing. Query matches anywhere in the
// neighborhood name; Neighborhood must match it exactly. Empty or "all"
// disables a criterion.
type RouteFilter struct {
	Query        string
	Neighborhood string
}

func (f RouteFilter) match(r domain.Route) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(domain.FoldText(r.Neighborhood), domain.FoldText(q)) {
			return false
		}
	}
	if n := strings.TrimSpace(f.Neighborhood); n != "" && n != "all" {
		if !strings.EqualFold(r.Neighborhood, n) {
			return false
		}
	}
	return true
}

// RouteService handles route-related business logic.
type RouteService struct {
	routes ports.RouteRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewRouteService creates a new RouteService. cache and events may be nil.
func NewRouteService(routes ports.RouteRepository, cache ports.CacheService, events ports.EventPublisher) *RouteService {
	return &RouteService{routes: routes, cache: cache, events: events}
}

// List returns the routes matching f, newest first.
func (s *RouteService) List(ctx context.Context, f RouteFilter) ([]domain.Route, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Route, 0, len(all))
	for _, r := range all {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListSummaries returns the routes matching f with their point count and length.
func (s *RouteService) ListSummaries(ctx context.Context, f RouteFilter) ([]domain.RouteSummary, error) {
	routes, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RouteSummary, len(routes))
	for i, r := range routes {
		out[i] = r.Summarize()
	}
	return out, nil
}

// GetByID returns a single route.
func (s *RouteService) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

// Scene renders the routes matching f, emphasising selectedID.
func (s *RouteService) Scene(ctx context.Context, f RouteFilter, selectedID string) (mapview.Scene, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "RouteService.Scene")
	defer span.End()

	routes, err := s.List(ctx, f)
	if err != nil {
		span.RecordError(err)
		return mapview.Scene{}, err
	}

	scene := mapview.Render(routes, mapview.Selection{RouteID: selectedID})
	span.SetAttributes(
		attribute.Int(telemetry.AttrRouteCount, len(routes)),
		attribute.String(telemetry.AttrSelectedID, scene.Selected),
		attribute.Int(telemetry.AttrOverlayDiff, len(scene.Polylines)+len(scene.Markers)),
	)
	return scene, nil
}

// Neighborhoods returns the distinct neighborhood names that have routes,
// in listing order.
func (s *RouteService) Neighborhoods(ctx context.Context) ([]string, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range all {
		if !seen[r.Neighborhood] {
			seen[r.Neighborhood] = true
			out = append(out, r.Neighborhood)
		}
	}
	return out, nil
}

// Create validates and stores a new route.
func (s *RouteService) Create(ctx context.Context, r *domain.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.routes.Create(ctx, r); err != nil {
		return fmt.Errorf("create route: %w", err)
	}
	s.changed(ctx, r.ID, domain.RouteCreated)
	return nil
}

// Update validates and replaces an existing route.
func (s *RouteService) Update(ctx context.Context, r *domain.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.routes.Update(ctx, r); err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	s.changed(ctx, r.ID, domain.RouteUpdated)
	return nil
}

// Delete removes a route.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	s.changed(ctx, id, domain.RouteDeleted)
	return nil
}

func (s *RouteService) all(ctx context.Context) ([]domain.Route, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKeyRoutesAll); err == nil {
			var routes []domain.Route
			if err := json.Unmarshal(data, &routes); err == nil {
				return routes, nil
			}
		}
	}

	routes, err := s.routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(routes); err == nil {
			_ = s.cache.Set(ctx, cacheKeyRoutesAll, data, routesCacheTTL)
		}
	}
	return routes, nil
}

// changed drops the cached listing and announces the write. Both are best-effort.
func (s *RouteService) changed(ctx context.Context, id string, op domain.RouteChangeOp) {
	metrics.RouteWrites.WithLabelValues(string(op)).Inc()
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKeyRoutesAll); err != nil {
			slog.Warn("route cache invalidation failed", "error", err)
		}
	}
	if s.events != nil {
		change := domain.RouteChange{RouteID: id, Op: op, At: time.Now().UTC()}
		if err := s.events.PublishRouteChanged(ctx, change); err != nil {
			slog.Warn("publish route change failed", "route_id", id, "error", err)
		}
	}
}
