package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/autlan/recolecta/internal/core/domain"
)

// Activity names, as registered from ContactActivities.
const (
	activityForward       = "ForwardToDepartment"
	activityMarkForwarded = "MarkForwarded"
	activityMarkFailed    = "MarkFailed"
)

// ContactRequestWorkflow delivers a stored contact request to its department.
// When delivery still fails after retries the request is marked failed
// (saga compensation) so staff can follow up by hand.
func ContactRequestWorkflow(ctx workflow.Context, req domain.ContactRequest) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting contact workflow", "contactID", req.ID, "department", req.Department)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    5,
		},
	})

	// Step 1: hand the request to the department's subject
	err := workflow.ExecuteActivity(ctx, activityForward, req).Get(ctx, nil)
	if err != nil {
		logger.Warn("forwarding failed, compensating", "contactID", req.ID, "error", err)
		if cerr := workflow.ExecuteActivity(ctx, activityMarkFailed, req.ID, req.Department).Get(ctx, nil); cerr != nil {
			logger.Error("marking request failed did not succeed", "contactID", req.ID, "error", cerr)
		}
		return err
	}

	// Step 2: record delivery
	if err := workflow.ExecuteActivity(ctx, activityMarkForwarded, req.ID).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Contact request forwarded", "contactID", req.ID)
	return nil
}
