package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/pkg/config"
)

// Dial connects to the Temporal frontend described by cfg.
func Dial(cfg config.TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default().With("component", "temporal")),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

// Starter implements ports.ContactWorkflowStarter on a Temporal client.
type Starter struct {
	client    client.Client
	taskQueue string
}

func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartContactWorkflow starts delivery of req. The workflow ID is derived
// from the request ID, so a request is never delivered twice.
func (s *Starter) StartContactWorkflow(ctx context.Context, req *domain.ContactRequest) error {
	opts := client.StartWorkflowOptions{
		ID:        "contact-" + req.ID,
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, ContactRequestWorkflow, *req)
	if err != nil {
		return fmt.Errorf("start contact workflow: %w", err)
	}
	slog.Info("contact workflow started", "contact_id", req.ID, "run_id", run.GetRunID())
	return nil
}
