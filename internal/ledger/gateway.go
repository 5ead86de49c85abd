package ledger

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"docsign/internal/model"
	"docsign/internal/wallet"
)

// Outcome classifies how a submission ended.
type Outcome string

const (
	OutcomeConfirmed      Outcome = "confirmed"
	OutcomeUserRejected   Outcome = "user_rejected"
	OutcomeNetworkError   Outcome = "network_error"
	OutcomeLedgerRejected Outcome = "ledger_rejected"
)

// Result is the classified outcome of Submit. Hash is set once the wallet has
// submitted, even if the transaction later fails.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Hash    string  `json:"hash,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// GatewayConfig holds the settings of a Gateway.
type GatewayConfig struct {
	Module         Module
	Network        string
	ExplorerHost   string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// Gateway submits document registry calls through a wallet and reads the
// registry through view calls. It never holds key material.
type Gateway struct {
	node *Client
	cfg  GatewayConfig
}

// NewGateway creates a Gateway on top of a node client.
func NewGateway(node *Client, cfg GatewayConfig) *Gateway {
	return &Gateway{node: node, cfg: cfg}
}

// Module returns the registry module the gateway targets.
func (g *Gateway) Module() Module {
	return g.cfg.Module
}

// ExplorerURL links a transaction hash in the ledger explorer.
func (g *Gateway) ExplorerURL(hash string) string {
	q := url.Values{}
	q.Set("network", g.cfg.Network)
	return fmt.Sprintf("https://%s/txn/%s?%s", g.cfg.ExplorerHost, url.PathEscape(hash), q.Encode())
}

// Submit asks signer to sign and submit payload, then waits for inclusion.
// onSubmitted, when set, is called with the hash as soon as the wallet returns it.
// The returned error is nil only for OutcomeConfirmed.
func (g *Gateway) Submit(ctx context.Context, signer wallet.Signer, payload model.Payload, onSubmitted func(hash string)) (Result, error) {
	if signer == nil {
		return Result{Outcome: OutcomeNetworkError}, errors.Wrap(ErrNetwork, "no wallet connected")
	}

	hash, err := signer.SignAndSubmit(ctx, payload)
	if err != nil {
		var rej *wallet.RejectedError
		switch {
		case errors.Is(err, wallet.ErrUserRejected):
			return Result{Outcome: OutcomeUserRejected}, err
		case errors.As(err, &rej):
			return Result{Outcome: OutcomeLedgerRejected, Reason: rej.Reason}, &RejectionError{Reason: rej.Reason}
		}
		return Result{Outcome: OutcomeNetworkError}, errors.Wrapf(ErrNetwork, "submit %s: %v", payload.Function, err)
	}
	if onSubmitted != nil {
		onSubmitted(hash)
	}

	wctx := ctx
	if g.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, g.cfg.ConfirmTimeout)
		defer cancel()
	}
	info, err := g.node.WaitForTransaction(wctx, hash, g.cfg.PollInterval)
	if err != nil {
		return Result{Outcome: OutcomeNetworkError, Hash: hash}, err
	}
	if !info.Success {
		return Result{Outcome: OutcomeLedgerRejected, Hash: hash, Reason: info.VMStatus},
			&RejectionError{Hash: hash, Reason: info.VMStatus}
	}
	return Result{Outcome: OutcomeConfirmed, Hash: hash}, nil
}

// documentWire is the registry module's JSON encoding of a document.
type documentWire struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CreatedAt   U64      `json:"created_at"`
	IpfsHash    string   `json:"ipfs_hash"`
	Owner       string   `json:"owner"`
	Signatures  []string `json:"signatures"`
	URL         string   `json:"url"`
	UsersToSign []string `json:"users_to_sign"`
}

func (d documentWire) toModel() model.Document {
	sigs := d.Signatures
	if sigs == nil {
		sigs = []string{}
	}
	signers := d.UsersToSign
	if signers == nil {
		signers = []string{}
	}
	return model.Document{
		ID:          d.ID,
		Name:        d.Name,
		ContentID:   d.IpfsHash,
		URL:         d.URL,
		Owner:       d.Owner,
		Signatures:  sigs,
		UsersToSign: signers,
		CreatedAt:   unixTime(uint64(d.CreatedAt)),
	}
}

// Documents returns every document visible to address via getAllDocuments.
func (g *Gateway) Documents(ctx context.Context, address string) ([]model.Document, error) {
	var out [][]documentWire
	if err := g.node.View(ctx, g.cfg.Module.ViewRequest(model.FnGetAllDocuments, address), &out); err != nil {
		if errors.Is(err, ErrNetwork) {
			return nil, errors.Wrap(ErrQueryFailed, err.Error())
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrQueryFailed, "getAllDocuments: empty result")
	}
	docs := make([]model.Document, 0, len(out[0]))
	for _, d := range out[0] {
		docs = append(docs, d.toModel())
	}
	return docs, nil
}

// AccountExists reports whether the node knows address.
func (g *Gateway) AccountExists(ctx context.Context, address string) (bool, error) {
	return g.node.AccountExists(ctx, address)
}

// Account reports existence and balance of address.
func (g *Gateway) Account(ctx context.Context, address string) (model.Account, error) {
	acc := model.Account{Address: address}
	exists, err := g.node.AccountExists(ctx, address)
	if err != nil {
		return acc, err
	}
	acc.Exists = exists
	if !exists {
		return acc, nil
	}
	bal, err := g.node.Balance(ctx, address)
	if err != nil {
		return acc, err
	}
	acc.Balance = bal
	return acc, nil
}

// unixTime interprets a ledger timestamp that may be in seconds, milliseconds or microseconds.
func unixTime(v uint64) time.Time {
	switch {
	case v == 0:
		return time.Time{}
	case v >= 1e14:
		return time.UnixMicro(int64(v)).UTC()
	case v >= 1e11:
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

func unfunded(reason string) bool {
	r := strings.ToUpper(reason)
	return strings.Contains(r, "INSUFFICIENT_BALANCE") || strings.Contains(r, "ACCOUNT_DOES_NOT_EXIST")
}
