package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docsign/internal/config"
)

// PinataStore uploads files to the Pinata pinning service.
type PinataStore struct {
	apiURL  string
	jwt     string
	gateway string
	http    *http.Client
}

// NewPinata creates a Pinata-backed ContentStore.
func NewPinata(cfg config.PinataConfig) (*PinataStore, error) {
	if cfg.JWT == "" {
		return nil, fmt.Errorf("pinata jwt is required")
	}
	if cfg.Gateway == "" {
		return nil, fmt.Errorf("pinata gateway is required")
	}
	return &PinataStore{
		apiURL:  strings.TrimRight(cfg.APIURL, "/"),
		jwt:     cfg.JWT,
		gateway: cfg.Gateway,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}, nil
}

var _ ContentStore = (*PinataStore)(nil)

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Upload pins the file and returns its IPFS hash and gateway URL.
func (p *PinataStore) Upload(ctx context.Context, r io.Reader, filename string) (ContentRef, error) {
	if r == nil {
		return ContentRef{}, ErrInputInvalid
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return ContentRef{}, fmt.Errorf("build form: %w", err)
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return ContentRef{}, fmt.Errorf("read content: %w", err)
	}
	if n == 0 {
		return ContentRef{}, ErrInputInvalid
	}
	if err := w.Close(); err != nil {
		return ContentRef{}, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return ContentRef{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	resp, err := p.http.Do(req)
	if err != nil {
		return ContentRef{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return ContentRef{}, fmt.Errorf("%w: pinata returned %d", ErrStorageUnavailable, resp.StatusCode)
	}
	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ContentRef{}, fmt.Errorf("%w: decode response: %v", ErrStorageUnavailable, err)
	}
	if out.IpfsHash == "" {
		return ContentRef{}, fmt.Errorf("%w: response without IpfsHash", ErrStorageUnavailable)
	}
	return ContentRef{ContentID: out.IpfsHash, URL: GatewayURL(p.gateway, out.IpfsHash)}, nil
}
