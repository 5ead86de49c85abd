package wallet

import "context"

// Registry holds the supported wallet adapters in registration order.
type Registry struct {
	order   []string
	wallets map[string]Wallet
}

// NewRegistry registers ws; a later wallet with the same name replaces an earlier one.
func NewRegistry(ws ...Wallet) *Registry {
	r := &Registry{wallets: make(map[string]Wallet)}
	for _, w := range ws {
		if _, seen := r.wallets[w.Name()]; !seen {
			r.order = append(r.order, w.Name())
		}
		r.wallets[w.Name()] = w
	}
	return r
}

// Get looks a wallet up by name.
func (r *Registry) Get(name string) (Wallet, error) {
	w, ok := r.wallets[name]
	if !ok {
		return nil, ErrUnknownWallet
	}
	return w, nil
}

// List reports every wallet with its current ready state.
func (r *Registry) List(ctx context.Context) []Info {
	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		w := r.wallets[name]
		out = append(out, Info{Name: name, URL: w.URL(), ReadyState: w.ReadyState(ctx)})
	}
	return out
}
