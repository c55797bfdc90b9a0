package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/inbound"
	"hausmeister/internal/model"
	"hausmeister/internal/service"
)

type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) Ingest(ctx context.Context, msg *inbound.Message) (*service.IngestResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentQuestion, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentQuestion), args.Error(1)
}

func (m *MockQuestionService) Answer(ctx context.Context, id, answer string, answeredBy *string) (*model.DocumentQuestion, error) {
	args := m.Called(ctx, id, answer, answeredBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentQuestion), args.Error(1)
}

type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) GetOrCreateCode(ctx context.Context, userID, appID string) (*model.ReferralCode, error) {
	args := m.Called(ctx, userID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralCode), args.Error(1)
}

func (m *MockReferralService) TrackClick(ctx context.Context, code string) (*service.TrackResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TrackResult), args.Error(1)
}

func (m *MockReferralService) Stats(ctx context.Context, userID string) (*service.ReferralStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReferralStats), args.Error(1)
}
