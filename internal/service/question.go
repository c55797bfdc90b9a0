package service

import (
	"context"
	"errors"
	"strings"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionAnswered = errors.New("question already answered")
	ErrAnswerRequired   = errors.New("answer is required")
)

// QuestionService lets reviewers resolve the open points of a document.
type QuestionService interface {
	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error)
	Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func (s *questionService) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	return s.repo.ListByDocument(ctx, documentID)
}

// Answer records the answer once; a question cannot be answered twice.
func (s *questionService) Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrAnswerRequired
	}

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if q.Status == model.QuestionAnswered {
		return nil, ErrQuestionAnswered
	}

	out, err := s.repo.Answer(ctx, id, answer, answeredBy)
	if errors.Is(err, repository.ErrStatusConflict) {
		return nil, ErrQuestionAnswered
	}
	return out, err
}
