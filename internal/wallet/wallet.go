// Package wallet abstracts the external, self-custodied wallets that hold the
// user's keys. Nothing in this module ever sees key material: wallets are
// asked to connect and to sign-and-submit payloads on the user's behalf.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"docsign/internal/model"
)

var (
	// ErrUserRejected means the user declined the request in the wallet. It is a
	// clean abort, never retried.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrUnknownWallet is returned for a wallet name that is not registered.
	ErrUnknownWallet = errors.New("unknown wallet")
	// ErrNotReady is returned when connecting to a wallet that is not installed.
	ErrNotReady = errors.New("wallet not ready")
)

// RejectedError is returned by a wallet that refused to submit because the
// ledger would reject the transaction (e.g. simulation failed).
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected by ledger: %s", e.Reason)
}

// ReadyState mirrors the availability states wallet adapters report.
type ReadyState string

const (
	Installed   ReadyState = "Installed"
	NotDetected ReadyState = "NotDetected"
)

// Connection is what a wallet hands back on connect.
type Connection struct {
	Address   string `json:"address"`
	PublicKey string `json:"public_key,omitempty"`
}

// Signer signs a payload and submits it to the ledger, returning the transaction hash.
// This is the single point where the process waits on a user-mediated operation.
type Signer interface {
	SignAndSubmit(ctx context.Context, payload model.Payload) (string, error)
}

// Wallet is one wallet adapter.
type Wallet interface {
	Signer
	Name() string
	// URL is where the user can install the wallet.
	URL() string
	ReadyState(ctx context.Context) ReadyState
	Connect(ctx context.Context) (Connection, error)
	Disconnect(ctx context.Context) error
}

// Info describes a registered wallet for selection.
type Info struct {
	Name       string     `json:"name"`
	URL        string     `json:"url,omitempty"`
	ReadyState ReadyState `json:"ready_state"`
}
