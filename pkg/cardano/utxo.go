package cardano

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
)

// Input references a transaction output by source transaction id and index.
type Input struct {
	TxID  Hash32
	Index uint64
}

func (in Input) Equal(other Input) bool {
	return in.TxID == other.TxID && in.Index == other.Index
}

// Output is a transaction output: the receiving address and the value held.
type Output struct {
	Address Address
	Value   Value
}

// Utxo is an unspent transaction output as returned by getUtxos.
type Utxo struct {
	Input  Input
	Output Output
}

type inputWire struct {
	_     struct{} `cbor:",toarray"`
	TxID  []byte
	Index uint64
}

func decodeInput(raw cbor.RawMessage) (Input, error) {
	var wire inputWire
	if err := cbor.Unmarshal(raw, &wire); err != nil {
		return Input{}, unsupportedErr("utxo", "invalid input element: %v", err)
	}
	txid, err := NewHash32(wire.TxID)
	if err != nil {
		return Input{}, constraintErr("utxo", "transaction id must be 32 bytes, got %d", len(wire.TxID))
	}
	return Input{TxID: txid, Index: wire.Index}, nil
}

// Outputs come in two shapes on the wire: the legacy array form
// [address, value] and the map form {0: address, 1: value, ...}. Both decode
// to the same Output; only address and value are retained.
func decodeOutput(raw cbor.RawMessage) (Output, error) {
	var addrRaw, valueRaw cbor.RawMessage

	var asMap map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &asMap); err == nil {
		var ok bool
		if addrRaw, ok = asMap[0]; !ok {
			return Output{}, malformedErr("utxo", "output map missing address")
		}
		if valueRaw, ok = asMap[1]; !ok {
			return Output{}, malformedErr("utxo", "output map missing value")
		}
	} else {
		var asArray []cbor.RawMessage
		if err := cbor.Unmarshal(raw, &asArray); err != nil {
			return Output{}, unsupportedErr("utxo", "invalid output element: %v", err)
		}
		if len(asArray) < 2 {
			return Output{}, malformedErr("utxo", "output array has %d elements, need at least 2", len(asArray))
		}
		addrRaw, valueRaw = asArray[0], asArray[1]
	}

	var addrBytes []byte
	if err := cbor.Unmarshal(addrRaw, &addrBytes); err != nil {
		return Output{}, unsupportedErr("utxo", "invalid output address: %v", err)
	}
	addr, err := DecodeAddress(addrBytes)
	if err != nil {
		return Output{}, err
	}

	value, err := DecodeValue(valueRaw)
	if err != nil {
		return Output{}, err
	}

	return Output{Address: addr, Value: value}, nil
}

// DecodeUtxo decodes the CBOR [input, output] pair returned by getUtxos.
func DecodeUtxo(raw []byte) (Utxo, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return Utxo{}, malformedErr("utxo", "invalid cbor: %v", err)
	}

	var pair []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &pair); err != nil {
		return Utxo{}, unsupportedErr("utxo", "expected array: %v", err)
	}
	if len(pair) != 2 {
		return Utxo{}, malformedErr("utxo", "expected 2 elements, got %d", len(pair))
	}

	input, err := decodeInput(pair[0])
	if err != nil {
		return Utxo{}, err
	}
	output, err := decodeOutput(pair[1])
	if err != nil {
		return Utxo{}, err
	}

	return Utxo{Input: input, Output: output}, nil
}

// DecodeUtxoHex decodes a utxo from its hex wire form.
func DecodeUtxoHex(s string) (Utxo, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Utxo{}, malformedErr("utxo", "invalid hex: %v", err)
	}
	return DecodeUtxo(raw)
}

func (in Input) encode() (cbor.RawMessage, error) {
	return encMode.Marshal(inputWire{TxID: in.TxID.Bytes(), Index: in.Index})
}

func (out Output) encode() (cbor.RawMessage, error) {
	valueRaw, err := out.Value.Encode()
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(map[uint64]cbor.RawMessage{
		0: mustMarshal(out.Address.Bytes()),
		1: valueRaw,
	})
}

// Encode emits the canonical [input, output] pair, always using the map
// output form.
func (u Utxo) Encode() ([]byte, error) {
	inputRaw, err := u.Input.encode()
	if err != nil {
		return nil, err
	}
	outputRaw, err := u.Output.encode()
	if err != nil {
		return nil, err
	}
	return encMode.Marshal([]cbor.RawMessage{inputRaw, outputRaw})
}

func mustMarshal(v interface{}) cbor.RawMessage {
	raw, err := encMode.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// UtxoSet is an ordered collection of utxos with unique (txid, index) pairs.
type UtxoSet struct {
	utxos []Utxo
}

// NewUtxoSet builds a set from the given utxos, rejecting duplicates.
func NewUtxoSet(utxos ...Utxo) (*UtxoSet, error) {
	s := &UtxoSet{}
	for _, u := range utxos {
		if err := s.Add(u); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a utxo, failing on a duplicated outpoint.
func (s *UtxoSet) Add(u Utxo) error {
	for _, existing := range s.utxos {
		if existing.Input.Equal(u.Input) {
			return constraintErr(
				"utxo set", "duplicate outpoint %s:%d", u.Input.TxID, u.Input.Index,
			)
		}
	}
	s.utxos = append(s.utxos, u)
	return nil
}

// Utxos returns the utxos in insertion order.
func (s *UtxoSet) Utxos() []Utxo {
	out := make([]Utxo, len(s.utxos))
	copy(out, s.utxos)
	return out
}

// Len returns the number of utxos held.
func (s *UtxoSet) Len() int {
	return len(s.utxos)
}

// Sum folds the set into its aggregate value.
func (s *UtxoSet) Sum() Value {
	total := Value{}
	for _, u := range s.utxos {
		total = total.Add(u.Output.Value)
	}
	return total
}
