package ports

import "errors"

// ErrWalletNotFound is returned by Lookup when the wallet is not, or no
// longer, present in the registry.
var ErrWalletNotFound = errors.New("wallet not found in discovery registry")

// DiscoveredWallet pairs the advertised metadata of a registry entry with its
// call surface.
type DiscoveredWallet struct {
	Name       string
	APIVersion string
	Icon       string
	// Extensions are the operation names the wallet advertises support for.
	Extensions []string
	Handle     Wallet
}

// WalletRegistry is the process-wide discovery mapping, populated by the
// host environment. The connector only reads it; entries may appear and
// disappear between reads, so callers work on snapshots.
type WalletRegistry interface {
	// Snapshot returns the wallets visible right now, in stable name order.
	Snapshot() []DiscoveredWallet
	// Lookup returns one wallet by name.
	Lookup(name string) (DiscoveredWallet, error)
}
