package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Faucet funds testnet accounts.
type Faucet struct {
	baseURL string
	node    *Client
	http    *http.Client
	poll    time.Duration
}

// NewFaucet creates a faucet client; node is used to await the funding transactions.
func NewFaucet(faucetURL string, node *Client, poll time.Duration) *Faucet {
	return &Faucet{
		baseURL: strings.TrimRight(faucetURL, "/"),
		node:    node,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: 30 * time.Second},
		poll:    poll,
	}
}

// Fund mints amount octas into address, creating the account if needed, and
// waits up to waitFor for the faucet transactions to execute.
func (f *Faucet) Fund(ctx context.Context, address string, amount uint64, waitFor time.Duration) ([]string, error) {
	q := url.Values{}
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/mint?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build faucet request")
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrNetwork, "fund %s: %v", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, errors.Wrapf(ErrNetwork, "fund %s: faucet returned %d", address, resp.StatusCode)
	}
	var hashes []string
	if err := json.NewDecoder(resp.Body).Decode(&hashes); err != nil {
		return nil, errors.Wrapf(ErrNetwork, "fund %s: malformed faucet response: %v", address, err)
	}

	if waitFor <= 0 || f.node == nil {
		return hashes, nil
	}
	wctx, cancel := context.WithTimeout(ctx, waitFor)
	defer cancel()
	for _, h := range hashes {
		info, err := f.node.WaitForTransaction(wctx, h, f.poll)
		if err != nil {
			return hashes, err
		}
		if !info.Success {
			return hashes, &RejectionError{Hash: h, Reason: info.VMStatus}
		}
	}
	return hashes, nil
}
