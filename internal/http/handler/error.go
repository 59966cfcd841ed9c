package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docportal/internal/http/middleware"
	"docportal/internal/httpclient"
	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response. message must be
// safe to show to the client.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

var validationErrors = []error{
	repository.ErrInvalidInput,
	service.ErrInvalidEmail,
	service.ErrInvalidRole,
	service.ErrTeamNameRequired,
	service.ErrIDRequired,
	service.ErrStateMismatch,
}

// writeServiceError maps repository, service and upstream errors onto the
// envelope. Upstream 401s stay 401; every other upstream status is a 502.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
		}
	}

	var authErr *repository.AuthError
	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "login required")
	case errors.As(err, &authErr):
		return writeError(c, fiber.StatusUnauthorized, "AUTH_FAILED", authErr.Code)
	case errors.As(err, &httpErr):
		if httpErr.Status == fiber.StatusUnauthorized {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "session expired")
		}
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", fmt.Sprintf("upstream returned HTTP %d", httpErr.Status))
	case errors.Is(err, httpclient.ErrTimeout):
		return writeError(c, fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "upstream request timed out")
	case errors.Is(err, httpclient.ErrNetwork), errors.Is(err, httpclient.ErrAborted):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream unavailable")
	case errors.Is(err, repository.ErrRejected):
		return writeError(c, fiber.StatusUnprocessableEntity, "REJECTED", err.Error())
	case errors.Is(err, repository.ErrMalformedPayload):
		return writeError(c, fiber.StatusBadGateway, "BAD_UPSTREAM_PAYLOAD", "unexpected upstream response")
	}

	logger.Log.Error("request_failed",
		zap.String("request_id", requestIDFromCtx(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
