package mocks

import (
	"context"

	"docsign/internal/model"
	"docsign/internal/wallet"

	"github.com/stretchr/testify/mock"
)

type MockWallet struct {
	mock.Mock
	WalletName string
}

func (m *MockWallet) Name() string { return m.WalletName }

func (m *MockWallet) URL() string { return "https://wallet.example/" + m.WalletName }

func (m *MockWallet) ReadyState(ctx context.Context) wallet.ReadyState {
	args := m.Called(ctx)
	return args.Get(0).(wallet.ReadyState)
}

func (m *MockWallet) Connect(ctx context.Context) (wallet.Connection, error) {
	args := m.Called(ctx)
	return args.Get(0).(wallet.Connection), args.Error(1)
}

func (m *MockWallet) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWallet) SignAndSubmit(ctx context.Context, payload model.Payload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) SignAndSubmit(ctx context.Context, payload model.Payload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}
