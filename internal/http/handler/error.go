package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hausmeister/internal/http/middleware"
)

// errorPayload is the body of every non-2xx response outside the inbound webhook.
type errorPayload struct {
	RequestID string      `json:"request_id"`
	Error     errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError answers with a machine-readable code and a message that is safe
// to show to clients. Internal error text never goes here.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorDetail{Code: code, Message: message},
	})
}

func internalError(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// Unauthorized is the rejection callback for middleware.RequireAuth.
func Unauthorized(c *fiber.Ctx, _ error) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid bearer token")
}

var frameworkErrors = map[int]errorDetail{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
}

// ErrorHandler maps errors that escape handlers (routing misses, body limit,
// panics recovered by Fiber) onto the error envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if d, ok := frameworkErrors[fe.Code]; ok {
				return writeError(c, fe.Code, d.Code, d.Message)
			}
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "REQUEST_ERROR", fe.Message)
			}
		}
		return internalError(c)
	}
}
