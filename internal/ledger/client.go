package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	errorCodeAccountNotFound     = "account_not_found"
	errorCodeTransactionNotFound = "transaction_not_found"
	pendingTransactionType       = "pending_transaction"
)

// Client talks to the ledger node REST API. Requests are throttled by a
// token bucket so that polling cannot flood the node.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a node client. rps <= 0 disables throttling.
func NewClient(nodeURL string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(nodeURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// apiError is the node's error body.
type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// ViewRequest is the body of a view call.
type ViewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// TransactionInfo is the subset of a transaction the gateway needs.
type TransactionInfo struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
}

// Pending reports whether the transaction has not been executed yet.
func (t TransactionInfo) Pending() bool {
	return t.Type == pendingTransactionType
}

// AccountExists reports whether the node knows the account.
func (c *Client) AccountExists(ctx context.Context, address string) (bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(address), nil)
	if err != nil {
		return false, err
	}
	if status < 300 {
		return true, nil
	}
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.ErrorCode == errorCodeAccountNotFound {
		return false, nil
	}
	return false, errors.Wrapf(ErrNetwork, "get account %s: status %d", address, status)
}

// View runs a read-only function and decodes the result into out.
func (c *Client) View(ctx context.Context, req ViewRequest, out any) error {
	if req.TypeArguments == nil {
		req.TypeArguments = []string{}
	}
	if req.Arguments == nil {
		req.Arguments = []any{}
	}
	b, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "encode view request")
	}
	status, body, err := c.do(ctx, http.MethodPost, "/view", b)
	if err != nil {
		return err
	}
	if status >= 300 {
		var ae apiError
		_ = json.Unmarshal(body, &ae)
		return errors.Wrapf(ErrQueryFailed, "view %s: status %d: %s", req.Function, status, ae.Message)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(ErrQueryFailed, "view %s: malformed body: %v", req.Function, err)
	}
	return nil
}

// Balance returns the coin balance of address in octas.
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	var out []U64
	err := c.View(ctx, ViewRequest{
		Function:      "0x1::coin::balance",
		TypeArguments: []string{"0x1::aptos_coin::AptosCoin"},
		Arguments:     []any{address},
	}, &out)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, errors.Wrap(ErrQueryFailed, "balance: empty result")
	}
	return uint64(out[0]), nil
}

// Transaction looks a transaction up by hash. found is false while the node has not seen it.
func (c *Client) Transaction(ctx context.Context, hash string) (info TransactionInfo, found bool, err error) {
	status, body, err := c.do(ctx, http.MethodGet, "/transactions/by_hash/"+url.PathEscape(hash), nil)
	if err != nil {
		return TransactionInfo{}, false, err
	}
	if status == http.StatusNotFound {
		var ae apiError
		if jsonErr := json.Unmarshal(body, &ae); jsonErr == nil && ae.ErrorCode == errorCodeTransactionNotFound {
			return TransactionInfo{}, false, nil
		}
	}
	if status >= 300 {
		return TransactionInfo{}, false, errors.Wrapf(ErrNetwork, "get transaction %s: status %d", hash, status)
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return TransactionInfo{}, false, errors.Wrapf(ErrNetwork, "get transaction %s: malformed body: %v", hash, err)
	}
	return info, true, nil
}

// WaitForTransaction polls until the transaction is executed or ctx is done.
func (c *Client) WaitForTransaction(ctx context.Context, hash string, poll time.Duration) (TransactionInfo, error) {
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		info, found, err := c.Transaction(ctx, hash)
		if err != nil {
			return TransactionInfo{}, err
		}
		if found && !info.Pending() {
			return info, nil
		}
		select {
		case <-ctx.Done():
			return TransactionInfo{}, errors.Wrapf(ErrNetwork, "wait for %s: %v", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, errors.Wrapf(ErrNetwork, "%s %s: %v", method, path, err)
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrNetwork, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrNetwork, "%s %s: read body: %v", method, path, err)
	}
	return resp.StatusCode, b, nil
}

// U64 decodes the node's u64 encoding, which is a decimal string, and also
// accepts plain JSON numbers.
type U64 uint64

func (u *U64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*u = U64(v)
	return nil
}
