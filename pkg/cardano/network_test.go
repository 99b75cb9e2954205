package cardano_test

import (
	"testing"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

func TestNetworkIDFromWire(t *testing.T) {
	net, err := cardano.NetworkIDFromWire(0)
	require.NoError(t, err)
	require.Equal(t, cardano.NetworkTestnet, net)
	require.True(t, net.Known())

	net, err = cardano.NetworkIDFromWire(1)
	require.NoError(t, err)
	require.Equal(t, cardano.NetworkMainnet, net)

	// the header nibble fits values the protocol does not govern yet
	net, err = cardano.NetworkIDFromWire(5)
	require.NoError(t, err)
	require.False(t, net.Known())

	_, err = cardano.NetworkIDFromWire(-1)
	require.Error(t, err)
	_, err = cardano.NetworkIDFromWire(16)
	require.Error(t, err)
}

func TestHash32(t *testing.T) {
	h, err := cardano.NewHash32(randomBytes(32))
	require.NoError(t, err)

	parsed, err := cardano.NewHash32FromHex(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = cardano.NewHash32(randomBytes(31))
	require.Error(t, err)
	_, err = cardano.NewHash32FromHex("abcd")
	require.Error(t, err)
}
