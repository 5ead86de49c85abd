package model

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// CoinDecimals is the number of decimal places between octas and whole coins.
const CoinDecimals = 8

// Identity is the connected wallet as seen by the rest of the system.
type Identity struct {
	Address   string `json:"address"`
	Wallet    string `json:"wallet"`
	Connected bool   `json:"connected"`
	Loading   bool   `json:"loading"`
}

// Active reports whether the identity can be used for ledger calls.
func (i Identity) Active() bool {
	return i.Connected && i.Address != ""
}

// Account is the ledger-side resource backing an Identity.
type Account struct {
	Address string `json:"address"`
	Exists  bool   `json:"exists"`
	Balance uint64 `json:"balance"`
}

// Funded reports whether the account can pay for a mutating call.
func (a Account) Funded() bool {
	return a.Exists && a.Balance > 0
}

// Display renders the balance in whole coins.
func (a Account) Display() string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(a.Balance), -CoinDecimals).String()
}

// NormalizeAddress lower-cases an address and ensures the 0x prefix, so that
// addresses reported by wallets and by the node compare equal.
func NormalizeAddress(addr string) string {
	a := strings.ToLower(strings.TrimSpace(addr))
	if a == "" {
		return ""
	}
	if !strings.HasPrefix(a, "0x") {
		a = "0x" + a
	}
	return a
}
