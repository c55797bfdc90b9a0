package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
	repoMocks "hausmeister/internal/repository/mocks"
)

func TestQuestionService_Answer(t *testing.T) {
	ctx := context.Background()
	reviewer := "user-9"

	tests := []struct {
		name       string
		id         string
		answer     string
		setupMocks func(m *repoMocks.MockQuestionRepository)
		wantErr    error
	}{
		{
			name:   "open question",
			id:     "q-1",
			answer: "  Haus B ",
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("FindByID", ctx, "q-1").Return(&model.DocumentQuestion{ID: "q-1", Status: model.QuestionOpen}, nil)
				m.On("Answer", ctx, "q-1", "Haus B", &reviewer).
					Return(&model.DocumentQuestion{ID: "q-1", Status: model.QuestionAnswered}, nil)
			},
		},
		{
			name:       "blank answer",
			id:         "q-1",
			answer:     "   ",
			setupMocks: func(m *repoMocks.MockQuestionRepository) {},
			wantErr:    ErrAnswerRequired,
		},
		{
			name:   "unknown question",
			id:     "q-x",
			answer: "Haus B",
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("FindByID", ctx, "q-x").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrQuestionNotFound,
		},
		{
			name:   "answered twice",
			id:     "q-1",
			answer: "Haus C",
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("FindByID", ctx, "q-1").Return(&model.DocumentQuestion{ID: "q-1", Status: model.QuestionAnswered}, nil)
			},
			wantErr: ErrQuestionAnswered,
		},
		{
			name:   "answered by someone else meanwhile",
			id:     "q-1",
			answer: "Haus C",
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("FindByID", ctx, "q-1").Return(&model.DocumentQuestion{ID: "q-1", Status: model.QuestionOpen}, nil)
				m.On("Answer", ctx, "q-1", "Haus C", mock.Anything).Return(nil, repository.ErrStatusConflict)
			},
			wantErr: ErrQuestionAnswered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockQuestionRepository)
			tt.setupMocks(m)
			svc := NewQuestionService(m)

			q, err := svc.Answer(ctx, tt.id, tt.answer, &reviewer)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, q)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.QuestionAnswered, q.Status)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestQuestionService_ListByDocument(t *testing.T) {
	ctx := context.Background()
	m := new(repoMocks.MockQuestionRepository)
	m.On("ListByDocument", ctx, "doc-1").Return([]model.DocumentQuestion{{ID: "q-1"}}, nil)

	qs, err := NewQuestionService(m).ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	_, err = NewQuestionService(m).ListByDocument(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}
