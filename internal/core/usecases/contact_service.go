package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
	"github.com/autlan/recolecta/internal/pkg/metrics"
	"github.com/autlan/recolecta/internal/pkg/telemetry"
)

// ContactLimits throttles submissions per email address.
type ContactLimits struct {
	PerHour int
	Burst   int
}

// ContactService accepts citizen contact requests and hands them off for
// delivery to the responsible department.
type ContactService struct {
	repo      ports.ContactRepository
	events    ports.EventPublisher
	workflows ports.ContactWorkflowStarter
	limiter   *emailLimiter
}

// NewContactService creates a new ContactService. When workflows is non-nil
// delivery goes through the durable workflow; otherwise the request is
// published directly on events. Either may be nil.
func NewContactService(
	repo ports.ContactRepository,
	events ports.EventPublisher,
	workflows ports.ContactWorkflowStarter,
	limits ContactLimits,
) *ContactService {
	return &ContactService{
		repo:      repo,
		events:    events,
		workflows: workflows,
		limiter:   newEmailLimiter(limits),
	}
}

// Submit validates, throttles and stores a request, then starts its delivery.
// Delivery failures are logged; the request stays stored as received.
func (s *ContactService) Submit(ctx context.Context, req *domain.ContactRequest) error {
	ctx, span := telemetry.Tracer().Start(ctx, "ContactService.Submit")
	defer span.End()

	if err := req.Validate(); err != nil {
		return err
	}
	span.SetAttributes(attribute.String(telemetry.AttrDepartment, req.Department))

	if !s.limiter.allow(req.Email) {
		return domain.ErrRateLimited
	}

	req.Status = domain.ContactReceived
	if err := s.repo.Create(ctx, req); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store contact request: %w", err)
	}
	metrics.ContactRequests.WithLabelValues(req.Department).Inc()

	switch {
	case s.workflows != nil:
		if err := s.workflows.StartContactWorkflow(ctx, req); err != nil {
			slog.Error("start contact workflow failed", "contact_id", req.ID, "error", err)
		}
	case s.events != nil:
		if err := s.events.PublishContactRequest(ctx, req); err != nil {
			metrics.ContactForwardFailures.WithLabelValues(req.Department).Inc()
			slog.Error("publish contact request failed", "contact_id", req.ID, "error", err)
			return nil
		}
		if err := s.repo.UpdateStatus(ctx, req.ID, domain.ContactForwarded); err != nil {
			slog.Warn("mark contact forwarded failed", "contact_id", req.ID, "error", err)
			return nil
		}
		req.Status = domain.ContactForwarded
	}
	return nil
}

// List returns every stored request, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactRequest, error) {
	return s.repo.List(ctx)
}

// maxTrackedEmails bounds the limiter's memory; past it every bucket is reset.
const maxTrackedEmails = 10000

// emailLimiter keeps one token bucket per address.
type emailLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func newEmailLimiter(l ContactLimits) *emailLimiter {
	if l.PerHour <= 0 {
		l.PerHour = 5
	}
	if l.Burst <= 0 {
		l.Burst = 2
	}
	return &emailLimiter{
		every:   rate.Every(time.Hour / time.Duration(l.PerHour)),
		burst:   l.Burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *emailLimiter) allow(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[email]
	if !ok {
		if len(l.buckets) >= maxTrackedEmails {
			clear(l.buckets)
		}
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[email] = b
	}
	return b.Allow()
}
