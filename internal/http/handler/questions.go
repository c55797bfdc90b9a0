package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hausmeister/internal/http/middleware"
	"hausmeister/internal/model"
	"hausmeister/internal/service"
)

type answerRequest struct {
	Answer string `json:"answer"`
}

// ListQuestions godoc
// @Summary List the review questions of a document
// @Tags questions
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string][]model.DocumentQuestion
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /documents/{id}/questions [get]
func ListQuestions(qSvc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}
		qs, err := qSvc.ListByDocument(c.UserContext(), id)
		if err != nil {
			return internalError(c)
		}
		if qs == nil {
			qs = []model.DocumentQuestion{}
		}
		return c.JSON(fiber.Map{"data": qs})
	}
}

// AnswerQuestion godoc
// @Summary Answer an open review question
// @Description The answering user is taken from the bearer token.
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param body body answerRequest true "Answer"
// @Success 200 {object} model.DocumentQuestion
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Failure 401 {object} errorPayload
// @Router /questions/{id}/answer [post]
func AnswerQuestion(qSvc service.QuestionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return invalidID(c)
		}

		var req answerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		var answeredBy *string
		if uid := middleware.UserIDFrom(c); uid != "" {
			answeredBy = &uid
		}

		q, err := qSvc.Answer(c.UserContext(), id, req.Answer, answeredBy)
		switch {
		case errors.Is(err, service.ErrAnswerRequired):
			return writeError(c, fiber.StatusBadRequest, "ANSWER_REQUIRED", "answer is required")
		case errors.Is(err, service.ErrQuestionNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "question not found")
		case errors.Is(err, service.ErrQuestionAnswered):
			return writeError(c, fiber.StatusConflict, "ALREADY_ANSWERED", "question was already answered")
		case err != nil:
			return internalError(c)
		}
		return c.JSON(q)
	}
}
