package cardano

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Body map keys defined by the ledger CDDL. Only the subset a connector
// builds or inspects is modeled; anything else fails decoding loudly instead
// of being dropped on re-encode.
const (
	bodyKeyInputs      = 0
	bodyKeyOutputs     = 1
	bodyKeyFee         = 2
	bodyKeyTTL         = 3
	bodyKeyAuxDataHash = 7
)

// TransactionBody is the unsigned portion of a transaction.
type TransactionBody struct {
	Inputs      []Input
	Outputs     []Output
	Fee         uint64
	TTL         *uint64
	AuxDataHash []byte
}

// DecodeTransactionBody decodes the CBOR map form of a transaction body.
func DecodeTransactionBody(raw []byte) (TransactionBody, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return TransactionBody{}, malformedErr("transaction body", "invalid cbor: %v", err)
	}

	var fields map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		return TransactionBody{}, unsupportedErr("transaction body", "expected map: %v", err)
	}

	for key := range fields {
		switch key {
		case bodyKeyInputs, bodyKeyOutputs, bodyKeyFee, bodyKeyTTL, bodyKeyAuxDataHash:
		default:
			return TransactionBody{}, unsupportedErr("transaction body", "unmodeled field %d", key)
		}
	}

	inputsRaw, ok := fields[bodyKeyInputs]
	if !ok {
		return TransactionBody{}, malformedErr("transaction body", "missing inputs")
	}
	outputsRaw, ok := fields[bodyKeyOutputs]
	if !ok {
		return TransactionBody{}, malformedErr("transaction body", "missing outputs")
	}
	feeRaw, ok := fields[bodyKeyFee]
	if !ok {
		return TransactionBody{}, malformedErr("transaction body", "missing fee")
	}

	var body TransactionBody

	var inputItems []cbor.RawMessage
	if err := cbor.Unmarshal(inputsRaw, &inputItems); err != nil {
		return TransactionBody{}, unsupportedErr("transaction body", "invalid inputs: %v", err)
	}
	for _, item := range inputItems {
		input, err := decodeInput(item)
		if err != nil {
			return TransactionBody{}, err
		}
		body.Inputs = append(body.Inputs, input)
	}

	var outputItems []cbor.RawMessage
	if err := cbor.Unmarshal(outputsRaw, &outputItems); err != nil {
		return TransactionBody{}, unsupportedErr("transaction body", "invalid outputs: %v", err)
	}
	for _, item := range outputItems {
		output, err := decodeOutput(item)
		if err != nil {
			return TransactionBody{}, err
		}
		body.Outputs = append(body.Outputs, output)
	}

	if err := cbor.Unmarshal(feeRaw, &body.Fee); err != nil {
		var signed int64
		if err := cbor.Unmarshal(feeRaw, &signed); err == nil {
			return TransactionBody{}, constraintErr("transaction body", "negative fee %d", signed)
		}
		return TransactionBody{}, unsupportedErr("transaction body", "invalid fee: %v", err)
	}

	if ttlRaw, ok := fields[bodyKeyTTL]; ok {
		var ttl uint64
		if err := cbor.Unmarshal(ttlRaw, &ttl); err != nil {
			return TransactionBody{}, unsupportedErr("transaction body", "invalid ttl: %v", err)
		}
		body.TTL = &ttl
	}

	if auxRaw, ok := fields[bodyKeyAuxDataHash]; ok {
		var aux []byte
		if err := cbor.Unmarshal(auxRaw, &aux); err != nil {
			return TransactionBody{}, unsupportedErr("transaction body", "invalid auxiliary data hash: %v", err)
		}
		if len(aux) != 32 {
			return TransactionBody{}, constraintErr(
				"transaction body", "auxiliary data hash must be 32 bytes, got %d", len(aux),
			)
		}
		body.AuxDataHash = aux
	}

	return body, nil
}

// Encode emits the canonical CBOR map form of the body.
func (b TransactionBody) Encode() ([]byte, error) {
	inputs := make([]cbor.RawMessage, 0, len(b.Inputs))
	for _, in := range b.Inputs {
		raw, err := in.encode()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, raw)
	}
	outputs := make([]cbor.RawMessage, 0, len(b.Outputs))
	for _, out := range b.Outputs {
		raw, err := out.encode()
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, raw)
	}

	fields := map[uint64]cbor.RawMessage{
		bodyKeyInputs:  mustMarshal(inputs),
		bodyKeyOutputs: mustMarshal(outputs),
		bodyKeyFee:     mustMarshal(b.Fee),
	}
	if b.TTL != nil {
		fields[bodyKeyTTL] = mustMarshal(*b.TTL)
	}
	if len(b.AuxDataHash) > 0 {
		fields[bodyKeyAuxDataHash] = mustMarshal(b.AuxDataHash)
	}

	return encMode.Marshal(fields)
}

// EncodeHex emits the hex wire form passed to signTx.
func (b TransactionBody) EncodeHex() (string, error) {
	raw, err := b.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Hash computes the transaction id: the blake2b-256 digest of the canonical
// body encoding.
func (b TransactionBody) Hash() (Hash32, error) {
	raw, err := b.Encode()
	if err != nil {
		return Hash32{}, err
	}
	return Hash32(blake2b.Sum256(raw)), nil
}

const (
	vkeyLen      = 32
	signatureLen = 64

	witnessKeyVKeys = 0
)

// VKeyWitness is one verification-key signature over a transaction body.
type VKeyWitness struct {
	VKey      []byte
	Signature []byte
}

// WitnessSet is the set of witnesses returned by signTx. Only verification
// key witnesses are modeled.
type WitnessSet struct {
	VKeys []VKeyWitness
}

type vkeyWitnessWire struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

// DecodeWitnessSet decodes the CBOR witness set map.
func DecodeWitnessSet(raw []byte) (WitnessSet, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return WitnessSet{}, malformedErr("witness set", "invalid cbor: %v", err)
	}

	var fields map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		return WitnessSet{}, unsupportedErr("witness set", "expected map: %v", err)
	}

	var set WitnessSet
	if vkeysRaw, ok := fields[witnessKeyVKeys]; ok {
		var wires []vkeyWitnessWire
		if err := cbor.Unmarshal(vkeysRaw, &wires); err != nil {
			return WitnessSet{}, unsupportedErr("witness set", "invalid vkey witnesses: %v", err)
		}
		for _, w := range wires {
			if len(w.VKey) != vkeyLen {
				return WitnessSet{}, constraintErr(
					"witness set", "vkey must be %d bytes, got %d", vkeyLen, len(w.VKey),
				)
			}
			if len(w.Signature) != signatureLen {
				return WitnessSet{}, constraintErr(
					"witness set", "signature must be %d bytes, got %d", signatureLen, len(w.Signature),
				)
			}
			set.VKeys = append(set.VKeys, VKeyWitness{VKey: w.VKey, Signature: w.Signature})
		}
	}

	return set, nil
}

// DecodeWitnessSetHex decodes a witness set from its hex wire form.
func DecodeWitnessSetHex(s string) (WitnessSet, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return WitnessSet{}, malformedErr("witness set", "invalid hex: %v", err)
	}
	return DecodeWitnessSet(raw)
}

// IsEmpty reports whether no witnesses are held.
func (w WitnessSet) IsEmpty() bool {
	return len(w.VKeys) == 0
}

// Merge returns the union of two witness sets.
func (w WitnessSet) Merge(other WitnessSet) WitnessSet {
	merged := WitnessSet{VKeys: make([]VKeyWitness, 0, len(w.VKeys)+len(other.VKeys))}
	merged.VKeys = append(merged.VKeys, w.VKeys...)
	merged.VKeys = append(merged.VKeys, other.VKeys...)
	return merged
}

// Encode emits the canonical CBOR witness set map.
func (w WitnessSet) Encode() ([]byte, error) {
	fields := map[uint64]cbor.RawMessage{}
	if len(w.VKeys) > 0 {
		wires := make([]vkeyWitnessWire, 0, len(w.VKeys))
		for _, vw := range w.VKeys {
			wires = append(wires, vkeyWitnessWire{VKey: vw.VKey, Signature: vw.Signature})
		}
		fields[witnessKeyVKeys] = mustMarshal(wires)
	}
	return encMode.Marshal(fields)
}

// Tx is a full transaction: body plus witnesses, as submitted to the chain.
type Tx struct {
	Body      TransactionBody
	Witnesses WitnessSet
	Valid     bool
}

// DecodeTx decodes the CBOR transaction array. Both the three-element
// pre-validity form [body, witnesses, auxiliary] and the four-element form
// [body, witnesses, valid, auxiliary] are accepted.
func DecodeTx(raw []byte) (Tx, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return Tx{}, malformedErr("transaction", "invalid cbor: %v", err)
	}

	var items []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &items); err != nil {
		return Tx{}, unsupportedErr("transaction", "expected array: %v", err)
	}
	if len(items) != 3 && len(items) != 4 {
		return Tx{}, unsupportedErr("transaction", "expected 3 or 4 elements, got %d", len(items))
	}

	body, err := DecodeTransactionBody(items[0])
	if err != nil {
		return Tx{}, err
	}
	witnesses, err := DecodeWitnessSet(items[1])
	if err != nil {
		return Tx{}, err
	}

	tx := Tx{Body: body, Witnesses: witnesses, Valid: true}
	if len(items) == 4 {
		if err := cbor.Unmarshal(items[2], &tx.Valid); err != nil {
			return Tx{}, unsupportedErr("transaction", "invalid validity flag: %v", err)
		}
	}
	return tx, nil
}

// Encode emits the canonical four-element transaction array with no
// auxiliary data.
func (tx Tx) Encode() ([]byte, error) {
	bodyRaw, err := tx.Body.Encode()
	if err != nil {
		return nil, err
	}
	witnessRaw, err := tx.Witnesses.Encode()
	if err != nil {
		return nil, err
	}
	return encMode.Marshal([]cbor.RawMessage{
		bodyRaw,
		witnessRaw,
		mustMarshal(tx.Valid),
		mustMarshal(nil),
	})
}

// EncodeHex emits the hex wire form passed to submitTx.
func (tx Tx) EncodeHex() (string, error) {
	raw, err := tx.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// DataSignature is the COSE envelope returned by signData, kept opaque.
type DataSignature struct {
	Signature []byte
	Key       []byte
}

// DecodeDataSignature decodes the hex-encoded signature and key strings
// returned by the wallet.
func DecodeDataSignature(signatureHex, keyHex string) (DataSignature, error) {
	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return DataSignature{}, malformedErr("data signature", "invalid signature hex: %v", err)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return DataSignature{}, malformedErr("data signature", "invalid key hex: %v", err)
	}
	if len(signature) == 0 || len(key) == 0 {
		return DataSignature{}, constraintErr("data signature", "empty signature or key")
	}
	return DataSignature{Signature: signature, Key: key}, nil
}
