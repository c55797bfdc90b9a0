package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hausmeister/internal/model"
	"hausmeister/internal/service"
)

type bookRequest struct {
	BuildingID *string  `json:"building_id"`
	Amount     *float64 `json:"amount"`
	Notes      *string  `json:"notes"`
}

// validID rejects non-UUID path ids with the standard envelope.
func validID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// documentError maps service errors shared by the document endpoints.
func documentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, model.ErrIllegalTransition):
		return writeError(c, fiber.StatusConflict, "ILLEGAL_TRANSITION", "document cannot be booked in its current status")
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "document was changed concurrently, retry")
	case errors.Is(err, model.ErrAmountRequired):
		return writeError(c, fiber.StatusUnprocessableEntity, "AMOUNT_REQUIRED", "an amount is required to book a document")
	default:
		return internalError(c)
	}
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Param company_id query string false "Tenant filter"
// @Param status query string false "pending, processed, needs_review or booked"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), service.DocumentListQuery{
			CompanyID: c.Query("company_id"),
			Status:    c.Query("status"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			if errors.Is(err, model.ErrUnknownStatus) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status")
			}
			return internalError(c)
		}
		return c.JSON(res)
	}
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return documentError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument godoc
// @Summary Get a short-lived download link for the stored PDF
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}
		url, err := docSvc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return documentError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// BookDocument godoc
// @Summary Book a reviewed document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param body body bookRequest false "Corrections applied before booking"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents/{id}/book [post]
func BookDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}

		var req bookRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}

		doc, err := docSvc.Book(c.UserContext(), id, service.BookInput{
			BuildingID: req.BuildingID,
			Amount:     req.Amount,
			Notes:      req.Notes,
		})
		if err != nil {
			return documentError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary Delete a document and its stored file
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return documentError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
