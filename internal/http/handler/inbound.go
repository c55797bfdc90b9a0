package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"hausmeister/internal/http/middleware"
	"hausmeister/internal/inbound"
	"hausmeister/internal/service"
)

// The inbound webhook keeps the relay-facing contract {error: "..."} instead
// of the error envelope used by the other endpoints.
type inboundError struct {
	Error string `json:"error"`
}

type inboundResponse struct {
	Success   bool                       `json:"success"`
	Processed int                        `json:"processed"`
	Documents []service.IngestedDocument `json:"documents"`
}

// InboundEmail godoc
// @Summary Receive an inbound email from a mail relay
// @Description Accepts JSON or multipart/form-data payloads and files every PDF attachment as a document.
// @Tags inbound
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} inboundResponse
// @Failure 403 {object} inboundError
// @Failure 404 {object} inboundError
// @Failure 500 {object} inboundError
// @Router /inbound/email [post]
func InboundEmail(ing service.Ingester, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		rid := middleware.RequestIDFrom(c)

		msg, dialect, err := inbound.Parse(c.Get(fiber.HeaderContentType), c.Body())
		if err != nil {
			log.WarnContext(ctx, "inbound payload rejected", "request_id", rid, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(inboundError{Error: err.Error()})
		}
		log.InfoContext(ctx, "inbound email received",
			"request_id", rid,
			"dialect", dialect,
			"from", msg.From,
			"to", msg.To,
			"attachments", len(msg.Attachments),
		)

		res, err := ing.Ingest(ctx, msg)
		switch {
		case errors.Is(err, service.ErrInboxNotFound):
			return c.Status(fiber.StatusNotFound).JSON(inboundError{Error: "Inbox not found"})
		case errors.Is(err, service.ErrSenderNotVerified):
			return c.Status(fiber.StatusForbidden).JSON(inboundError{Error: "Sender not verified"})
		case err != nil:
			log.ErrorContext(ctx, "inbound email failed", "request_id", rid, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(inboundError{Error: err.Error()})
		}

		docs := res.Documents
		if docs == nil {
			docs = []service.IngestedDocument{}
		}
		return c.JSON(inboundResponse{
			Success:   true,
			Processed: res.Processed(),
			Documents: docs,
		})
	}
}
