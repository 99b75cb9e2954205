package cardano

import (
	"encoding/hex"
)

// Hash32 is a 32-byte hash, used for transaction ids.
type Hash32 [32]byte

// NewHash32 copies the given bytes into a Hash32.
func NewHash32(raw []byte) (Hash32, error) {
	var h Hash32
	if len(raw) != 32 {
		return h, constraintErr("hash", "expected 32 bytes, got %d", len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// NewHash32FromHex parses a 64-char hex string into a Hash32.
func NewHash32FromHex(s string) (Hash32, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash32{}, malformedErr("hash", "invalid hex: %v", err)
	}
	return NewHash32(raw)
}

func (h Hash32) Bytes() []byte {
	b := make([]byte, 32)
	copy(b, h[:])
	return b
}

func (h Hash32) String() string {
	return hex.EncodeToString(h[:])
}
