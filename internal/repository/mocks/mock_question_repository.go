package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/model"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateQuestions(ctx context.Context, qs []model.DocumentQuestion) error {
	args := m.Called(ctx, qs)
	return args.Error(0)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id string) (*model.DocumentQuestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentQuestion), args.Error(1)
}

func (m *MockQuestionRepository) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentQuestion), args.Error(1)
}

func (m *MockQuestionRepository) Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error) {
	args := m.Called(ctx, id, answer, answeredBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentQuestion), args.Error(1)
}
