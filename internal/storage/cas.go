package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const casPrefix = "ipfs/"

// CASStore is a content-addressed store on top of an object Storage.
// Objects are keyed by their CIDv0, so identical bytes map to one object.
type CASStore struct {
	objects Storage
	gateway string
}

// NewCASStore wraps objects; gateway is the host serving /ipfs/<cid> for the store.
func NewCASStore(objects Storage, gateway string) *CASStore {
	return &CASStore{objects: objects, gateway: gateway}
}

var _ ContentStore = (*CASStore)(nil)

// ContentID returns the CIDv0 (sha2-256, base58btc) of data.
func ContentID(data []byte) (string, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV0(mh).String(), nil
}

// Upload stores the content under its CID unless it is already present.
func (s *CASStore) Upload(ctx context.Context, r io.Reader, filename string) (ContentRef, error) {
	if r == nil {
		return ContentRef{}, ErrInputInvalid
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ContentRef{}, fmt.Errorf("read content: %w", err)
	}
	if len(data) == 0 {
		return ContentRef{}, ErrInputInvalid
	}

	id, err := ContentID(data)
	if err != nil {
		return ContentRef{}, fmt.Errorf("compute content id: %w", err)
	}
	ref := ContentRef{ContentID: id, URL: GatewayURL(s.gateway, id)}
	key := casPrefix + id

	if _, err := s.objects.Stat(ctx, key); err == nil {
		return ref, nil
	} else if !errors.Is(err, ErrObjectNotFound) {
		return ContentRef{}, fmt.Errorf("%w: stat %s: %v", ErrStorageUnavailable, key, err)
	}

	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	_, err = s.objects.Put(ctx, key, bytes.NewReader(data), PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: ct,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return ContentRef{}, fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}
	return ref, nil
}

// Open streams the content stored under contentID.
func (s *CASStore) Open(ctx context.Context, contentID string) (io.ReadCloser, ObjectInfo, error) {
	if _, err := cid.Decode(contentID); err != nil {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	rc, info, err := s.objects.Get(ctx, casPrefix+contentID)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ObjectInfo{}, err
		}
		return nil, ObjectInfo{}, fmt.Errorf("%w: get %s: %v", ErrStorageUnavailable, contentID, err)
	}
	return rc, info, nil
}
