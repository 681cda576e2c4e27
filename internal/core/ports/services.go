package ports

import (
	"context"

	"github.com/autlan/recolecta/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteChanged(ctx context.Context, change domain.RouteChange) error
	PublishContactRequest(ctx context.Context, req *domain.ContactRequest) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRouteChanges(ctx context.Context, handler func(ctx context.Context, change domain.RouteChange) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ContactWorkflowStarter hands a stored contact request to the durable
// delivery workflow.
type ContactWorkflowStarter interface {
	StartContactWorkflow(ctx context.Context, req *domain.ContactRequest) error
}
