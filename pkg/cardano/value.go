package cardano

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
)

const (
	policyIDLen     = 28
	maxAssetNameLen = 32
)

// MultiAsset maps hex-encoded policy ids to hex-encoded asset names to
// quantities. Quantities are strictly positive: an asset with quantity zero
// simply does not appear.
type MultiAsset map[string]map[string]uint64

// Value is an amount of the base currency plus any native assets.
type Value struct {
	Coin   uint64
	Assets MultiAsset
}

// NewValue returns a Value holding only base currency.
func NewValue(coin uint64) Value {
	return Value{Coin: coin}
}

// IsZero reports whether the value carries no coin and no assets.
func (v Value) IsZero() bool {
	return v.Coin == 0 && len(v.Assets) == 0
}

// Equal reports semantic equality, ignoring empty inner maps.
func (v Value) Equal(other Value) bool {
	if v.Coin != other.Coin {
		return false
	}
	if len(v.Assets) != len(other.Assets) {
		return false
	}
	for policy, assets := range v.Assets {
		otherAssets, ok := other.Assets[policy]
		if !ok || len(assets) != len(otherAssets) {
			return false
		}
		for name, qty := range assets {
			if otherAssets[name] != qty {
				return false
			}
		}
	}
	return true
}

// Add returns the element-wise sum of two values.
func (v Value) Add(other Value) Value {
	out := Value{Coin: v.Coin + other.Coin}
	if len(v.Assets) == 0 && len(other.Assets) == 0 {
		return out
	}
	out.Assets = MultiAsset{}
	for _, src := range []MultiAsset{v.Assets, other.Assets} {
		for policy, assets := range src {
			dst, ok := out.Assets[policy]
			if !ok {
				dst = map[string]uint64{}
				out.Assets[policy] = dst
			}
			for name, qty := range assets {
				dst[name] += qty
			}
		}
	}
	return out
}

// Covers reports whether v holds at least as much of every asset as target.
func (v Value) Covers(target Value) bool {
	if v.Coin < target.Coin {
		return false
	}
	for policy, assets := range target.Assets {
		held := v.Assets[policy]
		for name, qty := range assets {
			if held[name] < qty {
				return false
			}
		}
	}
	return true
}

type multiAssetWire map[cbor.ByteString]map[cbor.ByteString]uint64

// DecodeValue decodes the CBOR value form used by getBalance and transaction
// outputs: either a plain unsigned integer, or a two-element array of coin
// and a multi-asset map.
func DecodeValue(raw []byte) (Value, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return Value{}, malformedErr("value", "invalid cbor: %v", err)
	}

	var coin uint64
	if err := cbor.Unmarshal(raw, &coin); err == nil {
		return Value{Coin: coin}, nil
	}

	var signed int64
	if err := cbor.Unmarshal(raw, &signed); err == nil {
		return Value{}, constraintErr("value", "negative quantity %d", signed)
	}

	var pair []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &pair); err != nil {
		return Value{}, unsupportedErr("value", "neither integer nor array: %v", err)
	}
	if len(pair) != 2 {
		return Value{}, unsupportedErr("value", "expected 2 elements, got %d", len(pair))
	}

	if err := cbor.Unmarshal(pair[0], &coin); err != nil {
		if err := cbor.Unmarshal(pair[0], &signed); err == nil {
			return Value{}, constraintErr("value", "negative quantity %d", signed)
		}
		return Value{}, unsupportedErr("value", "invalid coin element: %v", err)
	}

	var wire multiAssetWire
	if err := cbor.Unmarshal(pair[1], &wire); err != nil {
		var signedWire map[cbor.ByteString]map[cbor.ByteString]int64
		if err := cbor.Unmarshal(pair[1], &signedWire); err == nil {
			for _, names := range signedWire {
				for _, qty := range names {
					if qty < 0 {
						return Value{}, constraintErr("value", "negative quantity %d", qty)
					}
				}
			}
		}
		return Value{}, unsupportedErr("value", "invalid multiasset element: %v", err)
	}

	assets := MultiAsset{}
	for policy, names := range wire {
		if len(policy) != policyIDLen {
			return Value{}, constraintErr(
				"value", "policy id must be %d bytes, got %d", policyIDLen, len(policy),
			)
		}
		decoded := map[string]uint64{}
		for name, qty := range names {
			if len(name) > maxAssetNameLen {
				return Value{}, constraintErr(
					"value", "asset name longer than %d bytes", maxAssetNameLen,
				)
			}
			if qty == 0 {
				return Value{}, constraintErr("value", "zero quantity for asset %q", name)
			}
			decoded[hex.EncodeToString([]byte(name))] = qty
		}
		assets[hex.EncodeToString([]byte(policy))] = decoded
	}

	return Value{Coin: coin, Assets: assets}, nil
}

// DecodeValueHex decodes a value from its hex wire form.
func DecodeValueHex(s string) (Value, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Value{}, malformedErr("value", "invalid hex: %v", err)
	}
	return DecodeValue(raw)
}

// Encode emits the canonical CBOR form: a bare integer when no assets are
// held, the coin/multiasset pair otherwise.
func (v Value) Encode() ([]byte, error) {
	if len(v.Assets) == 0 {
		return encMode.Marshal(v.Coin)
	}

	wire := multiAssetWire{}
	for policy, names := range v.Assets {
		rawPolicy, err := hex.DecodeString(policy)
		if err != nil || len(rawPolicy) != policyIDLen {
			return nil, constraintErr("value", "invalid policy id %q", policy)
		}
		inner := map[cbor.ByteString]uint64{}
		for name, qty := range names {
			rawName, err := hex.DecodeString(name)
			if err != nil || len(rawName) > maxAssetNameLen {
				return nil, constraintErr("value", "invalid asset name %q", name)
			}
			if qty == 0 {
				return nil, constraintErr("value", "zero quantity for asset %q", name)
			}
			inner[cbor.ByteString(rawName)] = qty
		}
		wire[cbor.ByteString(rawPolicy)] = inner
	}

	return encMode.Marshal([]interface{}{v.Coin, wire})
}

// EncodeHex emits the hex wire form expected by getUtxos amount filters.
func (v Value) EncodeHex() (string, error) {
	raw, err := v.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
