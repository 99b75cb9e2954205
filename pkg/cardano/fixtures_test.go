package cardano_test

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func randomHash(t *testing.T) cardano.Hash32 {
	t.Helper()
	h, err := cardano.NewHash32(randomBytes(32))
	require.NoError(t, err)
	return h
}

func newBaseAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{byte(network)}, randomBytes(56)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newEnterpriseAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{0x60 | byte(network)}, randomBytes(28)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newRewardAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{0xe0 | byte(network)}, randomBytes(28)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newUtxo(t *testing.T, network cardano.NetworkID, coin uint64) cardano.Utxo {
	t.Helper()
	return cardano.Utxo{
		Input: cardano.Input{TxID: randomHash(t), Index: 0},
		Output: cardano.Output{
			Address: newBaseAddress(t, network),
			Value:   cardano.NewValue(coin),
		},
	}
}

func requireDecodeKind(t *testing.T, err error, kind cardano.DecodeKind) {
	t.Helper()
	var decodeErr *cardano.DecodeError
	require.True(t, errors.As(err, &decodeErr), "expected a DecodeError, got %v", err)
	require.Equal(t, kind, decodeErr.Kind)
}
