package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/model"
)

type MockTenantLookup struct {
	mock.Mock
}

func (m *MockTenantLookup) FindActiveInbox(ctx context.Context, address string) (*model.EmailInbox, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailInbox), args.Error(1)
}

func (m *MockTenantLookup) FindVerifiedSender(ctx context.Context, companyID, email string) (*model.VerifiedSender, error) {
	args := m.Called(ctx, companyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifiedSender), args.Error(1)
}
