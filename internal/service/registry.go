package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"docsign/internal/ledger"
	"docsign/internal/model"
	"docsign/internal/notify"
	"docsign/internal/policy"
)

// ListResult is what the registry view returns. QueryFailed tells an empty
// registry apart from one that could not be read.
type ListResult struct {
	Items       []model.Document `json:"data"`
	QueryFailed bool             `json:"query_failed"`
}

type cachedList struct {
	docs    []model.Document
	fetched time.Time
}

// RegistryView serves the documents visible to an identity, annotated with
// what that identity may do. Successful reads are cached per address until
// invalidated or older than the TTL; failed reads are never cached.
type RegistryView struct {
	source   DocumentSource
	notifier notify.Notifier
	log      logrus.FieldLogger
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedList
	// generation per address, bumped by Invalidate so that a fetch started
	// before the bump does not repopulate the cache.
	gen map[string]uint64
}

var _ Invalidator = (*RegistryView)(nil)

// NewRegistryView constructs a RegistryView. ttl <= 0 disables caching.
func NewRegistryView(source DocumentSource, notifier notify.Notifier, log logrus.FieldLogger, ttl time.Duration) *RegistryView {
	return &RegistryView{
		source:   source,
		notifier: notifier,
		log:      log.WithField("component", "registry_view"),
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]cachedList),
		gen:      make(map[string]uint64),
	}
}

// List returns the documents of identity. A disconnected identity gets an
// empty result without any query.
func (v *RegistryView) List(ctx context.Context, identity model.Identity) ListResult {
	if !identity.Active() {
		return ListResult{Items: []model.Document{}}
	}
	addr := identity.Address

	docs, gen, ok := v.cached(addr)
	if !ok {
		var err error
		docs, err = v.source.Documents(ctx, addr)
		if err != nil {
			v.log.WithFields(logrus.Fields{
				"event":   "registry_query_failed",
				"address": addr,
			}).WithError(err).Error("failed to fetch documents")
			v.notifier.Notify(notify.Notification{
				Title:       "Error",
				Description: "Failed to fetch documents. Please try again.",
				Variant:     notify.Destructive,
			})
			return ListResult{Items: []model.Document{}, QueryFailed: true}
		}
		v.store(addr, gen, docs)
	}

	items := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		items = append(items, policy.Annotate(d, addr))
	}
	return ListResult{Items: items}
}

// Get returns one annotated document of identity.
func (v *RegistryView) Get(ctx context.Context, identity model.Identity, id string) (model.Document, error) {
	if !identity.Active() {
		return model.Document{}, ErrNotConnected
	}
	res := v.List(ctx, identity)
	if res.QueryFailed {
		return model.Document{}, fmt.Errorf("get document %s: %w", id, ledger.ErrQueryFailed)
	}
	for _, d := range res.Items {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Document{}, ErrNotFound
}

// Invalidate drops the cached list of address.
func (v *RegistryView) Invalidate(address string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.cache, address)
	v.gen[address]++
}

// cached returns the cached list of addr, or the current generation to pass
// to store once a fresh list has been fetched.
func (v *RegistryView) cached(addr string) ([]model.Document, uint64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	gen := v.gen[addr]
	if v.ttl <= 0 {
		return nil, gen, false
	}
	c, ok := v.cache[addr]
	if !ok || v.now().Sub(c.fetched) > v.ttl {
		return nil, gen, false
	}
	return c.docs, gen, true
}

func (v *RegistryView) store(addr string, gen uint64, docs []model.Document) {
	if v.ttl <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen[addr] != gen {
		return
	}
	v.cache[addr] = cachedList{docs: docs, fetched: v.now()}
}
