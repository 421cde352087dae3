package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"docport/internal/http/middleware"
	"docport/internal/lifecycle"
	"docport/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorReason(c, status, code, message, "")
}

func writeErrorReason(c *fiber.Ctx, status int, code, message, reason string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Reason:  reason,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates the lifecycle error taxonomy into a response.
// The order matters: an orphaned object is also a collaborator failure.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *lifecycle.ValidationError
	var pv *lifecycle.PolicyViolation

	switch {
	case errors.As(err, &ve):
		return writeErrorReason(c, fiber.StatusBadRequest, "VALIDATION_FAILED", ve.Message, string(ve.Reason))
	case errors.Is(err, lifecycle.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.As(err, &pv):
		if pv.Reason == lifecycle.ReasonWrongParty {
			return writeErrorReason(c, fiber.StatusForbidden, "FORBIDDEN", "operation not permitted for this organization", string(pv.Reason))
		}
		return writeErrorReason(c, fiber.StatusUnprocessableEntity, "POLICY_VIOLATION", "operation not allowed in the document's current state", string(pv.Reason))
	case errors.Is(err, lifecycle.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "document changed concurrently, retry")
	case errors.Is(err, lifecycle.ErrOrphanedObject):
		return writeError(c, fiber.StatusBadGateway, "ORPHANED_OBJECT", "file stored but document could not be registered")
	case storage.IsCircuitOpen(err):
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "object storage unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return writeError(c, fiber.StatusGatewayTimeout, "TIMEOUT", "dependency timed out")
	case errors.Is(err, lifecycle.ErrCollaborator):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_FAILURE", "dependency failure")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "actor identity required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusBadGateway:
			return writeError(c, status, "UPSTREAM_FAILURE", "dependency failure")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
