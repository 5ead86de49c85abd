package wallet

import (
	"context"
	"sync"

	"docsign/internal/model"
)

// EventKind tells subscribers what happened to the session.
type EventKind int

const (
	Connected EventKind = iota + 1
	Disconnected
)

// Event is delivered to session subscribers after the state has changed.
type Event struct {
	Kind     EventKind
	Identity model.Identity
}

// Session holds the single active identity of the process. It is mutated
// only by Connect and Disconnect; everything else reads snapshots.
type Session struct {
	registry *Registry

	mu       sync.RWMutex
	identity model.Identity
	wallet   Wallet

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewSession creates a disconnected session over the given wallets.
func NewSession(registry *Registry) *Session {
	return &Session{registry: registry, subs: make(map[int]func(Event))}
}

// Identity returns a snapshot of the current identity.
func (s *Session) Identity() model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Signer returns the connected wallet, or nil when disconnected.
func (s *Session) Signer() Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil
	}
	return s.wallet
}

// Subscribe registers fn for session events and returns a function that removes it.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Connect switches the session to the named wallet. An existing connection is
// torn down first so that subscribers always see a Disconnected before the next Connected.
func (s *Session) Connect(ctx context.Context, walletName string) (model.Identity, error) {
	w, err := s.registry.Get(walletName)
	if err != nil {
		return model.Identity{}, err
	}
	if w.ReadyState(ctx) != Installed {
		return model.Identity{}, ErrNotReady
	}

	if s.Identity().Connected {
		s.Disconnect(ctx)
	}

	s.mu.Lock()
	s.identity = model.Identity{Wallet: walletName, Loading: true}
	s.mu.Unlock()

	conn, err := w.Connect(ctx)
	if err != nil {
		s.mu.Lock()
		s.identity = model.Identity{}
		s.mu.Unlock()
		return model.Identity{}, err
	}

	id := model.Identity{
		Address:   model.NormalizeAddress(conn.Address),
		Wallet:    walletName,
		Connected: true,
	}
	s.mu.Lock()
	s.identity = id
	s.wallet = w
	s.mu.Unlock()

	s.publish(Event{Kind: Connected, Identity: id})
	return id, nil
}

// Disconnect drops the current identity. It is a no-op when nothing is connected.
func (s *Session) Disconnect(ctx context.Context) {
	s.mu.Lock()
	prev, w := s.identity, s.wallet
	s.identity = model.Identity{}
	s.wallet = nil
	s.mu.Unlock()

	if w == nil {
		return
	}
	// The wallet forgetting us is best effort; the local session is already gone.
	_ = w.Disconnect(ctx)
	s.publish(Event{Kind: Disconnected, Identity: prev})
}

func (s *Session) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
