package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	// ErrInputInvalid is returned for empty uploads.
	ErrInputInvalid = errors.New("content is empty")
	// ErrStorageUnavailable wraps every transport failure of a content store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrObjectNotFound is returned when a key or content id is not stored.
	ErrObjectNotFound = errors.New("object not found")
)

// ContentRef identifies uploaded content. ContentID is derived from the bytes,
// URL is derived from ContentID.
type ContentRef struct {
	ContentID string `json:"content_id"`
	URL       string `json:"url"`
}

// ContentStore uploads document bytes to content-addressed storage.
type ContentStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (ContentRef, error)
}

// GatewayURL builds the retrieval URL of a content id behind an IPFS-style gateway.
// The gateway may be given as a bare host or as a URL.
func GatewayURL(gateway, contentID string) string {
	g := strings.TrimRight(gateway, "/")
	if !strings.HasPrefix(g, "http://") && !strings.HasPrefix(g, "https://") {
		g = "https://" + g
	}
	return g + "/ipfs/" + contentID
}
