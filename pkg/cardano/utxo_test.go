package cardano_test

import (
	"encoding/hex"
	"testing"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func TestUtxoRoundTrip(t *testing.T) {
	policy := hex.EncodeToString(randomBytes(28))
	name := hex.EncodeToString([]byte("nft"))
	original := cardano.Utxo{
		Input: cardano.Input{TxID: randomHash(t), Index: 3},
		Output: cardano.Output{
			Address: newBaseAddress(t, cardano.NetworkMainnet),
			Value: cardano.Value{
				Coin:   2_500_000,
				Assets: cardano.MultiAsset{policy: {name: 1}},
			},
		},
	}

	raw, err := original.Encode()
	require.NoError(t, err)

	decoded, err := cardano.DecodeUtxo(raw)
	require.NoError(t, err)
	require.True(t, original.Input.Equal(decoded.Input))
	require.True(t, original.Output.Address.Equal(decoded.Output.Address))
	require.True(t, original.Output.Value.Equal(decoded.Output.Value))
}

func TestDecodeUtxo(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		kind cardano.DecodeKind
	}{
		{
			name: "invalid hex",
			hex:  "not hex",
			kind: cardano.DecodeMalformed,
		},
		{
			name: "truncated cbor",
			hex:  "82",
			kind: cardano.DecodeMalformed,
		},
		{
			name: "not an array",
			hex:  "00",
			kind: cardano.DecodeUnsupportedFormat,
		},
		{
			name: "wrong arity",
			hex:  "80",
			kind: cardano.DecodeMalformed,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			_, err := cardano.DecodeUtxoHex(tt.hex)
			require.Error(t, err)
			requireDecodeKind(t, err, tt.kind)
		})
	}

	t.Run("short transaction id", func(t *testing.T) {
		addr := newBaseAddress(t, cardano.NetworkTestnet)
		raw, err := cbor.Marshal([]interface{}{
			[]interface{}{randomBytes(16), uint64(0)},
			[]interface{}{addr.Bytes(), uint64(1000)},
		})
		require.NoError(t, err)

		_, err = cardano.DecodeUtxo(raw)
		require.Error(t, err)
		requireDecodeKind(t, err, cardano.DecodeConstraintViolation)
	})

	t.Run("legacy array output form", func(t *testing.T) {
		addr := newBaseAddress(t, cardano.NetworkTestnet)
		raw, err := cbor.Marshal([]interface{}{
			[]interface{}{randomBytes(32), uint64(1)},
			[]interface{}{addr.Bytes(), uint64(1_000_000)},
		})
		require.NoError(t, err)

		decoded, err := cardano.DecodeUtxo(raw)
		require.NoError(t, err)
		require.Equal(t, uint64(1), decoded.Input.Index)
		require.True(t, addr.Equal(decoded.Output.Address))
		require.Equal(t, uint64(1_000_000), decoded.Output.Value.Coin)
	})
}

func TestUtxoSet(t *testing.T) {
	u1 := newUtxo(t, cardano.NetworkTestnet, 1_000_000)
	u2 := newUtxo(t, cardano.NetworkTestnet, 2_000_000)

	set, err := cardano.NewUtxoSet(u1, u2)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	require.Equal(t, uint64(3_000_000), set.Sum().Coin)

	t.Run("duplicate outpoint rejected", func(t *testing.T) {
		err := set.Add(u1)
		require.Error(t, err)
		requireDecodeKind(t, err, cardano.DecodeConstraintViolation)
		require.Equal(t, 2, set.Len())
	})

	t.Run("same txid different index accepted", func(t *testing.T) {
		sibling := u1
		sibling.Input.Index = 7
		require.NoError(t, set.Add(sibling))
		require.Equal(t, 3, set.Len())
	})
}
