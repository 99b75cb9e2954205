package cardano

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fxamacker/cbor/v2"
	"github.com/mr-tron/base58"
)

// AddressType is the high nibble of a Shelley address header byte.
type AddressType uint8

const (
	AddrBaseKeyKey       AddressType = 0x0
	AddrBaseScriptKey    AddressType = 0x1
	AddrBaseKeyScript    AddressType = 0x2
	AddrBaseScriptScript AddressType = 0x3
	AddrPointerKey       AddressType = 0x4
	AddrPointerScript    AddressType = 0x5
	AddrEnterpriseKey    AddressType = 0x6
	AddrEnterpriseScript AddressType = 0x7
	AddrByron            AddressType = 0x8
	AddrRewardKey        AddressType = 0xe
	AddrRewardScript     AddressType = 0xf
)

const (
	keyHashLen = 28
	// header + payment credential
	minShelleyAddrLen = 1 + keyHashLen
	// header + payment credential + delegation credential
	baseAddrLen = 1 + 2*keyHashLen
)

// Address wraps a validated address payload. It is only constructed by a
// successful decode, so holding an Address implies the payload passed the
// structural checks for its type.
type Address struct {
	raw []byte
}

// DecodeAddress validates the given raw address payload.
func DecodeAddress(raw []byte) (Address, error) {
	if len(raw) == 0 {
		return Address{}, malformedErr("address", "empty payload")
	}

	typ := AddressType(raw[0] >> 4)
	switch typ {
	case AddrBaseKeyKey, AddrBaseScriptKey, AddrBaseKeyScript, AddrBaseScriptScript:
		if len(raw) != baseAddrLen {
			return Address{}, malformedErr(
				"address", "base address must be %d bytes, got %d", baseAddrLen, len(raw),
			)
		}
	case AddrPointerKey, AddrPointerScript:
		// the chain pointer is variable-length, only the lower bound is fixed
		if len(raw) <= minShelleyAddrLen {
			return Address{}, malformedErr(
				"address", "pointer address must be more than %d bytes, got %d",
				minShelleyAddrLen, len(raw),
			)
		}
	case AddrEnterpriseKey, AddrEnterpriseScript, AddrRewardKey, AddrRewardScript:
		if len(raw) != minShelleyAddrLen {
			return Address{}, malformedErr(
				"address", "credential-only address must be %d bytes, got %d",
				minShelleyAddrLen, len(raw),
			)
		}
	case AddrByron:
		// bootstrap addresses are themselves CBOR
		if err := cbor.Wellformed(raw); err != nil {
			return Address{}, malformedErr("address", "invalid bootstrap payload: %v", err)
		}
	default:
		return Address{}, unsupportedErr("address", "unrecognized address type %#x", uint8(typ))
	}

	a := Address{raw: make([]byte, len(raw))}
	copy(a.raw, raw)
	return a, nil
}

// DecodeAddressHex decodes an address from its hex wire form.
func DecodeAddressHex(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, malformedErr("address", "invalid hex: %v", err)
	}
	return DecodeAddress(raw)
}

// Type returns the address type nibble.
func (a Address) Type() AddressType {
	return AddressType(a.raw[0] >> 4)
}

// Network returns the network the address belongs to. ok is false for
// bootstrap addresses, whose payload does not carry a network discriminant
// in the header.
func (a Address) Network() (NetworkID, bool) {
	if a.Type() == AddrByron {
		return 0, false
	}
	return NetworkID(a.raw[0] & 0x0f), true
}

// IsReward reports whether this is a reward (stake) address.
func (a Address) IsReward() bool {
	t := a.Type()
	return t == AddrRewardKey || t == AddrRewardScript
}

// Bytes returns a copy of the canonical payload.
func (a Address) Bytes() []byte {
	b := make([]byte, len(a.raw))
	copy(b, a.raw)
	return b
}

// Hex returns the hex wire form, as exchanged with the wallet.
func (a Address) Hex() string {
	return hex.EncodeToString(a.raw)
}

// Equal reports payload equality.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a.raw, other.raw)
}

// String renders the human-readable text form: bech32 for Shelley addresses,
// base58 for bootstrap ones.
func (a Address) String() string {
	if a.Type() == AddrByron {
		return base58.Encode(a.raw)
	}

	hrp := "addr"
	if a.IsReward() {
		hrp = "stake"
	}
	if net, ok := a.Network(); ok && net != NetworkMainnet {
		hrp += "_test"
	}

	conv, err := bech32.ConvertBits(a.raw, 8, 5, true)
	if err != nil {
		return a.Hex()
	}
	encoded, err := bech32.Encode(hrp, conv)
	if err != nil {
		return a.Hex()
	}
	return encoded
}
