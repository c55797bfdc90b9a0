package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) ApplyExtraction(ctx context.Context, id string, from model.DocumentStatus, upd model.ExtractionUpdate) error {
	args := m.Called(ctx, id, from, upd)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockDocumentRepository) Book(ctx context.Context, id string, from model.DocumentStatus, upd model.BookingUpdate) error {
	args := m.Called(ctx, id, from, upd)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
