package cardano

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// LovelacePerAda is the number of base units in one ADA.
const LovelacePerAda = 1_000_000

// FormatLovelace renders a lovelace amount as a decimal ADA string,
// e.g. 1500000 -> "1.5".
func FormatLovelace(lovelace uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lovelace), -6).String()
}

// ParseAda converts a decimal ADA string into lovelace. Fractions below one
// lovelace and negative amounts are rejected.
func ParseAda(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, malformedErr("amount", "invalid decimal: %v", err)
	}
	if d.IsNegative() {
		return 0, constraintErr("amount", "negative amount %s", s)
	}

	shifted := d.Shift(6)
	if !shifted.IsInteger() {
		return 0, constraintErr("amount", "amount %s is below one lovelace precision", s)
	}
	bi := shifted.BigInt()
	if !bi.IsUint64() {
		return 0, constraintErr("amount", "amount %s overflows", s)
	}
	return bi.Uint64(), nil
}
