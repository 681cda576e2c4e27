package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/autlan/recolecta/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                 `json:"status"`
	Code      string              `json:"code"`    // bad_request, not_found, conflict, internal_error, ...
	Message   string              `json:"message"` // Human-readable message
	Fields    []domain.FieldError `json:"fields,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnauthorized, "unauthorized", msg)
}

func errForbidden(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusForbidden, "forbidden", msg)
}

func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

func errTooManyRequests(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusTooManyRequests, "too_many_requests", msg)
}

// writeError maps a service error onto the HTTP error contract. Unexpected
// errors are logged and reported without detail.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		reqID, _ := c.Locals("requestid").(string)
		return c.Status(fiber.StatusBadRequest).JSON(APIError{
			Status:    fiber.StatusBadRequest,
			Code:      "bad_request",
			Message:   "invalid input",
			Fields:    verr.Fields,
			RequestID: reqID,
		})
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errUnauthorized(c, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return errForbidden(c, "insufficient permissions")
	case errors.Is(err, domain.ErrRateLimited):
		return errTooManyRequests(c, "too many requests, please try again later")
	}

	LoggerFromCtx(c.UserContext()).Error("request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}
