package mocks

import (
	"context"
	"io"
	"time"

	"docsign/internal/ledger"
	"docsign/internal/model"
	"docsign/internal/notify"
	"docsign/internal/service"
	"docsign/internal/wallet"
	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Identity() model.Identity {
	args := m.Called()
	return args.Get(0).(model.Identity)
}

func (m *MockSession) Signer() wallet.Signer {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(wallet.Signer)
}

func (m *MockSession) Connect(ctx context.Context, walletName string) (model.Identity, error) {
	args := m.Called(ctx, walletName)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *MockSession) Disconnect(ctx context.Context) {
	m.Called(ctx)
}

type MockLedgerGateway struct {
	mock.Mock
	ModuleID ledger.Module
}

func (m *MockLedgerGateway) Module() ledger.Module { return m.ModuleID }

func (m *MockLedgerGateway) ExplorerURL(hash string) string {
	return "https://explorer.example/txn/" + hash + "?network=testnet"
}

func (m *MockLedgerGateway) Submit(ctx context.Context, signer wallet.Signer, payload model.Payload, onSubmitted func(hash string)) (ledger.Result, error) {
	args := m.Called(ctx, signer, payload, onSubmitted)
	res := args.Get(0).(ledger.Result)
	if res.Hash != "" && onSubmitted != nil {
		onSubmitted(res.Hash)
	}
	return res, args.Error(1)
}

type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) Documents(ctx context.Context, address string) ([]model.Document, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) AccountExists(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) Account(ctx context.Context, address string) (model.Account, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(model.Account), args.Error(1)
}

type MockFunder struct {
	mock.Mock
}

func (m *MockFunder) Fund(ctx context.Context, address string, amount uint64, waitFor time.Duration) ([]string, error) {
	args := m.Called(ctx, address, amount, waitFor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) EnsureAccount(ctx context.Context, identity model.Identity) {
	m.Called(ctx, identity)
}

func (m *MockProvisioner) Account(ctx context.Context, identity model.Identity) (model.Account, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(model.Account), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(address string) {
	m.Called(address)
}

type MockDocumentController struct {
	mock.Mock
}

func (m *MockDocumentController) CreateDocument(ctx context.Context, session service.Session, filename string, r io.Reader, size int64) (model.PendingTransaction, error) {
	args := m.Called(ctx, session, filename, r, size)
	return args.Get(0).(model.PendingTransaction), args.Error(1)
}

func (m *MockDocumentController) SignDocument(ctx context.Context, session service.Session, doc model.Document) (model.PendingTransaction, error) {
	args := m.Called(ctx, session, doc)
	return args.Get(0).(model.PendingTransaction), args.Error(1)
}

func (m *MockDocumentController) DeleteDocument(ctx context.Context, session service.Session, doc model.Document) (model.PendingTransaction, error) {
	args := m.Called(ctx, session, doc)
	return args.Get(0).(model.PendingTransaction), args.Error(1)
}

func (m *MockDocumentController) Pending() []model.PendingTransaction {
	args := m.Called()
	return args.Get(0).([]model.PendingTransaction)
}

type MockDocumentReader struct {
	mock.Mock
}

func (m *MockDocumentReader) List(ctx context.Context, identity model.Identity) service.ListResult {
	args := m.Called(ctx, identity)
	return args.Get(0).(service.ListResult)
}

func (m *MockDocumentReader) Get(ctx context.Context, identity model.Identity, id string) (model.Document, error) {
	args := m.Called(ctx, identity, id)
	return args.Get(0).(model.Document), args.Error(1)
}

type MockJournalReader struct {
	mock.Mock
}

func (m *MockJournalReader) List(ctx context.Context, identity string, limit, offset int) (*service.TransactionListResult, error) {
	args := m.Called(ctx, identity, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransactionListResult), args.Error(1)
}

func (m *MockJournalReader) Get(ctx context.Context, id string) (*model.PendingTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingTransaction), args.Error(1)
}

type MockWalletDirectory struct {
	mock.Mock
}

func (m *MockWalletDirectory) List(ctx context.Context) []wallet.Info {
	args := m.Called(ctx)
	return args.Get(0).([]wallet.Info)
}

type MockNotificationFeed struct {
	mock.Mock
}

func (m *MockNotificationFeed) Since(seq int64) []notify.Notification {
	args := m.Called(seq)
	return args.Get(0).([]notify.Notification)
}

func (m *MockNotificationFeed) Subscribe(fromSeq int64) ([]notify.Notification, <-chan notify.Notification, func()) {
	args := m.Called(fromSeq)
	var ch <-chan notify.Notification
	if c, ok := args.Get(1).(chan notify.Notification); ok {
		ch = c
	}
	return args.Get(0).([]notify.Notification), ch, args.Get(2).(func())
}

type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) Reset(identity string) {
	m.Called(identity)
}
