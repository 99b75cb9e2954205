package cardano_test

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	t.Run("plain coin", func(t *testing.T) {
		v, err := cardano.DecodeValueHex("1a000f4240")
		require.NoError(t, err)
		require.Equal(t, uint64(1_000_000), v.Coin)
		require.Empty(t, v.Assets)
	})

	t.Run("coin with assets round trip", func(t *testing.T) {
		policy := hex.EncodeToString(randomBytes(28))
		name := hex.EncodeToString([]byte("token"))
		v := cardano.Value{
			Coin:   5_000_000,
			Assets: cardano.MultiAsset{policy: {name: 42}},
		}

		encoded, err := v.EncodeHex()
		require.NoError(t, err)

		decoded, err := cardano.DecodeValueHex(encoded)
		require.NoError(t, err)
		require.True(t, v.Equal(decoded))
	})

	t.Run("quantity above int64 range round trip", func(t *testing.T) {
		policy := hex.EncodeToString(randomBytes(28))
		name := hex.EncodeToString([]byte("max"))
		v := cardano.Value{
			Coin:   1,
			Assets: cardano.MultiAsset{policy: {name: math.MaxUint64}},
		}

		encoded, err := v.EncodeHex()
		require.NoError(t, err)

		decoded, err := cardano.DecodeValueHex(encoded)
		require.NoError(t, err)
		require.True(t, v.Equal(decoded))
	})

	t.Run("negative asset quantity", func(t *testing.T) {
		raw, err := cbor.Marshal([]interface{}{
			uint64(1),
			map[cbor.ByteString]map[cbor.ByteString]int64{
				cbor.ByteString(randomBytes(28)): {cbor.ByteString("tok"): -5},
			},
		})
		require.NoError(t, err)

		_, err = cardano.DecodeValue(raw)
		require.Error(t, err)
		requireDecodeKind(t, err, cardano.DecodeConstraintViolation)
	})

	tests := []struct {
		name string
		hex  string
		kind cardano.DecodeKind
	}{
		{
			name: "truncated cbor",
			hex:  "1a00",
			kind: cardano.DecodeMalformed,
		},
		{
			name: "negative coin",
			hex:  "20",
			kind: cardano.DecodeConstraintViolation,
		},
		{
			name: "text string",
			hex:  "6161",
			kind: cardano.DecodeUnsupportedFormat,
		},
		{
			name: "empty array",
			hex:  "80",
			kind: cardano.DecodeUnsupportedFormat,
		},
		{
			name: "invalid hex",
			hex:  "zz",
			kind: cardano.DecodeMalformed,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			_, err := cardano.DecodeValueHex(tt.hex)
			require.Error(t, err)
			requireDecodeKind(t, err, tt.kind)
		})
	}
}

func TestValueEncodeRejectsBrokenAssets(t *testing.T) {
	t.Run("short policy id", func(t *testing.T) {
		v := cardano.Value{
			Coin:   1,
			Assets: cardano.MultiAsset{"abcd": {"00": 1}},
		}
		_, err := v.Encode()
		requireDecodeKind(t, err, cardano.DecodeConstraintViolation)
	})

	t.Run("zero quantity", func(t *testing.T) {
		policy := hex.EncodeToString(randomBytes(28))
		v := cardano.Value{
			Coin:   1,
			Assets: cardano.MultiAsset{policy: {"00": 0}},
		}
		_, err := v.Encode()
		requireDecodeKind(t, err, cardano.DecodeConstraintViolation)
	})
}

func TestValueArithmetic(t *testing.T) {
	policy := hex.EncodeToString(randomBytes(28))
	name := hex.EncodeToString([]byte("asset"))

	a := cardano.Value{Coin: 3, Assets: cardano.MultiAsset{policy: {name: 10}}}
	b := cardano.Value{Coin: 4, Assets: cardano.MultiAsset{policy: {name: 5}}}

	sum := a.Add(b)
	require.Equal(t, uint64(7), sum.Coin)
	require.Equal(t, uint64(15), sum.Assets[policy][name])

	require.True(t, sum.Covers(a))
	require.True(t, sum.Covers(b))
	require.False(t, a.Covers(sum))

	require.True(t, cardano.Value{}.IsZero())
	require.False(t, a.IsZero())
}
