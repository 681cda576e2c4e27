package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/autlan/recolecta/internal/core/ports"
	"github.com/autlan/recolecta/internal/core/usecases"
)

// Pinger is a backing service that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes        *usecases.RouteService
	Neighborhoods *usecases.NeighborhoodService
	Trucks        *usecases.TruckService
	Drivers       *usecases.DriverService
	Assignments   *usecases.AssignmentService
	Articles      *usecases.ArticleService
	Roles         *usecases.RoleService
	Contact       *usecases.ContactService

	// Auth verifies bearer tokens. When nil every authenticated endpoint
	// answers 401.
	Auth *Authenticator
	// Events feeds route changes to live map sessions. Optional.
	Events ports.EventSubscriber

	DB    Pinger
	NATS  *nats.Conn
	Cache Pinger
}
