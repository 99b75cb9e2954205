package discovery

import "github.com/cardano-connect/go-cip30/internal/core/ports"

// EventType distinguishes the events emitted while watching the registry.
type EventType int

const (
	WalletAdded EventType = iota
	WalletRemoved
	WalletChanged
	Quit
)

func (t EventType) String() string {
	switch t {
	case WalletAdded:
		return "WalletAdded"
	case WalletRemoved:
		return "WalletRemoved"
	case WalletChanged:
		return "WalletChanged"
	case Quit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is emitted through the watcher channel whenever the set of injected
// wallets changes between two registry snapshots.
type Event interface {
	Type() EventType
}

// WalletEvent carries the wallet a change refers to.
type WalletEvent struct {
	EventType EventType
	Wallet    ports.DiscoveredWallet
}

func (e WalletEvent) Type() EventType {
	return e.EventType
}

// QuitEvent is the last event emitted before the channel closes.
type QuitEvent struct{}

func (q QuitEvent) Type() EventType {
	return Quit
}
