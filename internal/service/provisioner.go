package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"docsign/internal/model"
)

// DefaultBootstrapFund is one whole coin in octas.
const DefaultBootstrapFund uint64 = 100000000

// ProvisionerConfig controls how new accounts are funded.
type ProvisionerConfig struct {
	Amount  uint64
	WaitFor time.Duration
}

// AccountProvisioner creates and funds the ledger account of a newly seen
// identity through the faucet. Concurrent calls for one address share a
// single funding attempt.
type AccountProvisioner struct {
	accounts Accounts
	faucet   Funder
	cfg      ProvisionerConfig
	log      logrus.FieldLogger
	metrics  *Metrics
	group    singleflight.Group
}

var _ Provisioner = (*AccountProvisioner)(nil)

// NewAccountProvisioner constructs an AccountProvisioner.
func NewAccountProvisioner(accounts Accounts, faucet Funder, cfg ProvisionerConfig, log logrus.FieldLogger, metrics *Metrics) *AccountProvisioner {
	if cfg.Amount == 0 {
		cfg.Amount = DefaultBootstrapFund
	}
	return &AccountProvisioner{
		accounts: accounts,
		faucet:   faucet,
		cfg:      cfg,
		log:      log.WithField("component", "provisioner"),
		metrics:  metrics,
	}
}

// EnsureAccount funds the identity's account when the ledger does not know
// it yet. Failures are logged and swallowed: the next mutating call then
// fails on its own as unfunded.
func (p *AccountProvisioner) EnsureAccount(ctx context.Context, identity model.Identity) {
	if !identity.Active() {
		return
	}
	addr := identity.Address
	// Funding outlives the request that triggered it; other callers may be waiting on it.
	fctx := context.WithoutCancel(ctx)
	_, _, _ = p.group.Do(addr, func() (any, error) {
		p.ensure(fctx, addr)
		return nil, nil
	})
}

func (p *AccountProvisioner) ensure(ctx context.Context, addr string) {
	log := p.log.WithField("address", addr)

	exists, err := p.accounts.AccountExists(ctx, addr)
	if err != nil {
		p.metrics.provision("error")
		log.WithField("event", "account_check_failed").WithError(err).Warn("account lookup failed")
		return
	}
	if exists {
		p.metrics.provision("exists")
		return
	}

	start := time.Now()
	hashes, err := p.faucet.Fund(ctx, addr, p.cfg.Amount, p.cfg.WaitFor)
	if err != nil {
		p.metrics.provision("error")
		log.WithFields(logrus.Fields{
			"event":       "account_fund_failed",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Warn("faucet funding failed")
		return
	}
	p.metrics.provision("funded")
	log.WithFields(logrus.Fields{
		"event":       "account_funded",
		"amount":      p.cfg.Amount,
		"hashes":      hashes,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("account funded")
}

// Account returns the ledger account of the connected identity.
func (p *AccountProvisioner) Account(ctx context.Context, identity model.Identity) (model.Account, error) {
	if !identity.Active() {
		return model.Account{}, ErrNotConnected
	}
	return p.accounts.Account(ctx, identity.Address)
}
