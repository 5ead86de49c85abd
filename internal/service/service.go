// Package service orchestrates the document signing flows: account
// provisioning, the transaction lifecycle of mutating calls, and the
// registry view read by the HTTP layer.
package service

import (
	"context"
	"errors"
	"time"

	"docsign/internal/ledger"
	"docsign/internal/model"
	"docsign/internal/wallet"
)

var (
	ErrInputInvalid = errors.New("input is invalid")
	ErrUnauthorized = errors.New("not authorized for this document")
	ErrInFlight     = errors.New("a request of this kind is already in flight")
	ErrNotConnected = errors.New("no wallet connected")
	ErrNotFound     = errors.New("not found")
)

// Session is the view of the wallet session the services need.
type Session interface {
	Identity() model.Identity
	Signer() wallet.Signer
}

// LedgerGateway submits mutating calls through a wallet.
type LedgerGateway interface {
	Module() ledger.Module
	ExplorerURL(hash string) string
	Submit(ctx context.Context, signer wallet.Signer, payload model.Payload, onSubmitted func(hash string)) (ledger.Result, error)
}

// DocumentSource reads the registry for an address.
type DocumentSource interface {
	Documents(ctx context.Context, address string) ([]model.Document, error)
}

// Accounts reads ledger account state.
type Accounts interface {
	AccountExists(ctx context.Context, address string) (bool, error)
	Account(ctx context.Context, address string) (model.Account, error)
}

// Funder bootstraps an account with test funds.
type Funder interface {
	Fund(ctx context.Context, address string, amount uint64, waitFor time.Duration) ([]string, error)
}

// Provisioner makes sure an identity has a funded ledger account.
type Provisioner interface {
	EnsureAccount(ctx context.Context, identity model.Identity)
}

// Invalidator drops cached registry reads for an address.
type Invalidator interface {
	Invalidate(address string)
}
