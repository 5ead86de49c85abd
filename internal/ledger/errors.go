package ledger

import "github.com/pkg/errors"

var (
	// ErrNetwork covers transport failures and confirmation timeouts.
	ErrNetwork = errors.New("ledger network error")
	// ErrQueryFailed is returned when a view call answers non-2xx or with a malformed body.
	ErrQueryFailed = errors.New("ledger query failed")
	// ErrLedgerRejected is returned when the ledger executed and rejected a transaction.
	ErrLedgerRejected = errors.New("ledger rejected transaction")
	// ErrAccountUnfunded tags rejections caused by a missing or empty account.
	ErrAccountUnfunded = errors.New("account unfunded")
)

// RejectionError carries the VM status of a rejected transaction.
type RejectionError struct {
	Hash   string
	Reason string
}

func (e *RejectionError) Error() string {
	return "ledger rejected transaction: " + e.Reason
}

// Is lets errors.Is match ErrLedgerRejected, and ErrAccountUnfunded when the
// reason points at a missing balance or account.
func (e *RejectionError) Is(target error) bool {
	switch target {
	case ErrLedgerRejected:
		return true
	case ErrAccountUnfunded:
		return unfunded(e.Reason)
	}
	return false
}
