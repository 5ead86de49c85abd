package mocks

import (
	"context"

	"docsign/internal/model"
	"docsign/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *model.PendingTransaction) (*model.PendingTransaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *model.PendingTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id string) (*model.PendingTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingTransaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, identity string, pq repository.PageQuery) (*repository.PageResult[model.PendingTransaction], error) {
	args := m.Called(ctx, identity, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PendingTransaction]), args.Error(1)
}
