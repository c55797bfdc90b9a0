package repository

import (
	"context"

	"hausmeister/internal/model"
)

// QuestionWriter records open questions for documents.
type QuestionWriter interface {
	CreateQuestions(ctx context.Context, qs []model.DocumentQuestion) error
}

type QuestionRepository interface {
	QuestionWriter

	FindByID(ctx context.Context, id string) (*model.DocumentQuestion, error)
	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error)

	// Answer stores the answer of an open question. An already answered
	// question yields ErrStatusConflict.
	Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error)
}
