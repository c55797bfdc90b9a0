package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/model"
)

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) FindCodeByUserApp(ctx context.Context, userID, appID string) (*model.ReferralCode, error) {
	args := m.Called(ctx, userID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralCode), args.Error(1)
}

func (m *MockReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferralRepository) CreateCode(ctx context.Context, c *model.ReferralCode) (*model.ReferralCode, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralCode), args.Error(1)
}

func (m *MockReferralRepository) FindActiveCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralCode), args.Error(1)
}

func (m *MockReferralRepository) CreateConversion(ctx context.Context, c *model.ReferralConversion) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockReferralRepository) ListCodesByUser(ctx context.Context, userID string) ([]model.ReferralCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReferralCode), args.Error(1)
}

func (m *MockReferralRepository) ListConversions(ctx context.Context, codeIDs []string) ([]model.ReferralConversion, error) {
	args := m.Called(ctx, codeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReferralConversion), args.Error(1)
}
