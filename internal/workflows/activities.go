package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
	"github.com/autlan/recolecta/internal/pkg/metrics"
)

// ContactActivities holds the activity implementations for the contact workflow.
type ContactActivities struct {
	Contacts ports.ContactRepository
	Events   ports.EventPublisher
}

// ForwardToDepartment publishes the request on its department's subject.
func (a *ContactActivities) ForwardToDepartment(ctx context.Context, req domain.ContactRequest) error {
	if a.Events == nil {
		return errors.New("no event publisher configured")
	}
	if err := a.Events.PublishContactRequest(ctx, &req); err != nil {
		return fmt.Errorf("forward contact %s to %s: %w", req.ID, req.Department, err)
	}
	return nil
}

// MarkForwarded records successful delivery.
func (a *ContactActivities) MarkForwarded(ctx context.Context, id string) error {
	if err := a.Contacts.UpdateStatus(ctx, id, domain.ContactForwarded); err != nil {
		return fmt.Errorf("mark contact %s forwarded: %w", id, err)
	}
	return nil
}

// MarkFailed records that delivery was abandoned (saga compensation).
func (a *ContactActivities) MarkFailed(ctx context.Context, id, department string) error {
	metrics.ContactForwardFailures.WithLabelValues(department).Inc()
	if err := a.Contacts.UpdateStatus(ctx, id, domain.ContactFailed); err != nil {
		return fmt.Errorf("mark contact %s failed: %w", id, err)
	}
	slog.Warn("contact request marked failed", "contact_id", id, "department", department)
	return nil
}
