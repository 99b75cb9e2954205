package cardano

import "fmt"

// NetworkID identifies the network a session is connected to. The wire value
// only distinguishes testing environments from mainnet; which specific test
// network is in use cannot be told apart at this layer.
type NetworkID uint8

const (
	// NetworkTestnet covers pre-production and preview alike.
	NetworkTestnet NetworkID = 0
	// NetworkMainnet is the production network.
	NetworkMainnet NetworkID = 1
)

// NetworkIDFromWire converts the integer returned by getNetworkId.
func NetworkIDFromWire(n int) (NetworkID, error) {
	if n < 0 || n > 0xf {
		return 0, constraintErr("network id", "value %d out of range", n)
	}
	return NetworkID(n), nil
}

// Known reports whether the id is one of the values governed by the protocol.
func (n NetworkID) Known() bool {
	return n == NetworkTestnet || n == NetworkMainnet
}

func (n NetworkID) String() string {
	switch n {
	case NetworkTestnet:
		return "testnet"
	case NetworkMainnet:
		return "mainnet"
	default:
		return fmt.Sprintf("unknown-network-id(%#02x)", uint8(n))
	}
}
