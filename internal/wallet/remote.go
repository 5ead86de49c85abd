package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docsign/internal/config"
	"docsign/internal/model"
)

// userRejectedCodes are the error codes signers use when the user declines.
var userRejectedCodes = map[string]bool{
	"4001":          true,
	"user_rejected": true,
}

// RemoteSigner is a wallet adapter that talks to a wallet's local signer
// endpoint over JSON/HTTP.
type RemoteSigner struct {
	name       string
	signerURL  string
	installURL string
	http       *http.Client
}

// NewRemoteSigner builds an adapter from its configuration.
func NewRemoteSigner(cfg config.WalletConfig) *RemoteSigner {
	return &RemoteSigner{
		name:       cfg.Name,
		signerURL:  strings.TrimRight(cfg.SignerURL, "/"),
		installURL: cfg.InstallURL,
		http:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

var _ Wallet = (*RemoteSigner)(nil)

func (w *RemoteSigner) Name() string { return w.name }
func (w *RemoteSigner) URL() string  { return w.installURL }

// ReadyState probes the signer; anything but a ready answer counts as not detected.
func (w *RemoteSigner) ReadyState(ctx context.Context) ReadyState {
	if w.signerURL == "" {
		return NotDetected
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var out struct {
		Ready bool `json:"ready"`
	}
	if err := w.call(ctx, http.MethodGet, "/status", nil, &out); err != nil || !out.Ready {
		return NotDetected
	}
	return Installed
}

// Connect asks the wallet to share its account with this agent.
func (w *RemoteSigner) Connect(ctx context.Context) (Connection, error) {
	var out Connection
	if err := w.call(ctx, http.MethodPost, "/connect", struct{}{}, &out); err != nil {
		return Connection{}, err
	}
	if out.Address == "" {
		return Connection{}, fmt.Errorf("wallet %s returned no address", w.name)
	}
	return out, nil
}

// Disconnect tells the wallet the session is over.
func (w *RemoteSigner) Disconnect(ctx context.Context) error {
	return w.call(ctx, http.MethodPost, "/disconnect", struct{}{}, nil)
}

// SignAndSubmit hands payload to the wallet, which prompts the user, signs and submits it.
func (w *RemoteSigner) SignAndSubmit(ctx context.Context, payload model.Payload) (string, error) {
	var out struct {
		Hash string `json:"hash"`
	}
	req := struct {
		Payload model.Payload `json:"payload"`
	}{Payload: payload}
	if err := w.call(ctx, http.MethodPost, "/sign_and_submit", req, &out); err != nil {
		return "", err
	}
	if out.Hash == "" {
		return "", fmt.Errorf("wallet %s returned no transaction hash", w.name)
	}
	return out.Hash, nil
}

type signerError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

func (w *RemoteSigner) call(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.signerURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("wallet %s: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var se signerError
		_ = json.NewDecoder(resp.Body).Decode(&se)
		code := strings.ToLower(fmt.Sprint(se.Code))
		switch {
		case userRejectedCodes[code]:
			return ErrUserRejected
		case code == "ledger_rejected":
			return &RejectedError{Reason: se.Message}
		}
		return fmt.Errorf("wallet %s returned %d: %s", w.name, resp.StatusCode, se.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wallet %s: decode response: %w", w.name, err)
	}
	return nil
}
