package service

import (
	"context"
	"io"

	"docsign/internal/model"
	"docsign/internal/notify"
	"docsign/internal/wallet"
)

// DocumentController runs the mutating document flows.
type DocumentController interface {
	CreateDocument(ctx context.Context, session Session, filename string, r io.Reader, size int64) (model.PendingTransaction, error)
	SignDocument(ctx context.Context, session Session, doc model.Document) (model.PendingTransaction, error)
	DeleteDocument(ctx context.Context, session Session, doc model.Document) (model.PendingTransaction, error)
	Pending() []model.PendingTransaction
}

// DocumentReader reads the registry for an identity.
type DocumentReader interface {
	List(ctx context.Context, identity model.Identity) ListResult
	Get(ctx context.Context, identity model.Identity, id string) (model.Document, error)
}

// AccountReader reports the ledger account of an identity.
type AccountReader interface {
	Account(ctx context.Context, identity model.Identity) (model.Account, error)
}

// JournalReader reads the transaction journal.
type JournalReader interface {
	List(ctx context.Context, identity string, limit, offset int) (*TransactionListResult, error)
	Get(ctx context.Context, id string) (*model.PendingTransaction, error)
}

// SessionManager is the wallet session as driven by the HTTP layer.
type SessionManager interface {
	Session
	Connect(ctx context.Context, walletName string) (model.Identity, error)
	Disconnect(ctx context.Context)
}

// WalletDirectory lists the configured wallets.
type WalletDirectory interface {
	List(ctx context.Context) []wallet.Info
}

// NotificationFeed returns notifications after a sequence number, either
// once or as a live subscription.
type NotificationFeed interface {
	Since(seq int64) []notify.Notification
	Subscribe(fromSeq int64) ([]notify.Notification, <-chan notify.Notification, func())
}

var (
	_ DocumentController = (*LifecycleController)(nil)
	_ DocumentReader     = (*RegistryView)(nil)
	_ AccountReader      = (*AccountProvisioner)(nil)
	_ JournalReader      = (*TransactionJournal)(nil)
	_ SessionManager     = (*wallet.Session)(nil)
	_ WalletDirectory    = (*wallet.Registry)(nil)
	_ NotificationFeed   = (*notify.Hub)(nil)
)
