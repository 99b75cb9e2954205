package walletregistry

import (
	"sort"
	"sync"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
)

// Registry is the in-process wallet discovery registry: the host environment
// registers the wallets it injects, the connector only reads snapshots. It
// is safe for concurrent use and tolerates wallets coming and going between
// reads.
type Registry struct {
	mtx     sync.RWMutex
	wallets map[string]ports.DiscoveredWallet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{wallets: map[string]ports.DiscoveredWallet{}}
}

// Register adds or replaces an entry under its name.
func (r *Registry) Register(w ports.DiscoveredWallet) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.wallets[w.Name] = w
}

// Unregister drops an entry, a no-op when absent.
func (r *Registry) Unregister(name string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	delete(r.wallets, name)
}

// Snapshot returns the wallets visible right now, in stable name order.
func (r *Registry) Snapshot() []ports.DiscoveredWallet {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]ports.DiscoveredWallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns one wallet by name.
func (r *Registry) Lookup(name string) (ports.DiscoveredWallet, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	w, ok := r.wallets[name]
	if !ok {
		return ports.DiscoveredWallet{}, ports.ErrWalletNotFound
	}
	return w, nil
}
