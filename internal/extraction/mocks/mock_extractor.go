package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/extraction"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, in extraction.Input) (*extraction.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Result), args.Error(1)
}
