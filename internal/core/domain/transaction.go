package domain

import (
	"sync"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/google/uuid"
)

// TxState is the lifecycle stage of an outgoing transaction.
type TxState int

const (
	// TxBuilding accepts incremental draft operations. No wallet interaction
	// happens in this stage.
	TxBuilding TxState = iota
	// TxSigned means the wallet attached witnesses; the body is frozen.
	TxSigned
	// TxSubmitted means the network accepted the transaction.
	TxSubmitted
	// TxFailed is reachable from any stage. The draft, and the witnesses if
	// signing succeeded earlier, remain available for a caller-driven retry.
	TxFailed
)

func (s TxState) String() string {
	switch s {
	case TxBuilding:
		return "building"
	case TxSigned:
		return "signed"
	case TxSubmitted:
		return "submitted"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TxFlow drives one transaction from draft to submission. Draft mutation is
// only possible in the Building stage and freezes once a signature has been
// requested.
type TxFlow struct {
	id string

	mtx        sync.Mutex
	state      TxState
	body       cardano.TransactionBody
	witnesses  cardano.WitnessSet
	txID       *cardano.Hash32
	failure    error
	frozen     bool
	signing    bool
	submitting bool
}

// NewTxFlow starts a flow with an empty draft.
func NewTxFlow() *TxFlow {
	return &TxFlow{id: uuid.New().String(), state: TxBuilding}
}

// NewSweepFlow builds a flow that consumes every given utxo into a single
// output to the given address, minus the fee. All spent outputs whose address
// carries a network discriminant must live on the same network as the
// destination.
func NewSweepFlow(utxos *cardano.UtxoSet, fee uint64, to cardano.Address) (*TxFlow, error) {
	targetNet, targetKnown := to.Network()

	flow := NewTxFlow()
	for _, u := range utxos.Utxos() {
		if net, ok := u.Output.Address.Network(); ok && targetKnown && net != targetNet {
			return nil, NewProtocolViolation(
				"utxo %s:%d is on %s, destination is on %s",
				u.Input.TxID, u.Input.Index, net, targetNet,
			)
		}
		if err := flow.AddInput(u.Input); err != nil {
			return nil, err
		}
	}

	total := utxos.Sum()
	if total.Coin < fee {
		return nil, ErrCannotPayFee
	}
	total.Coin -= fee

	if err := flow.AddOutput(cardano.Output{Address: to, Value: total}); err != nil {
		return nil, err
	}
	if err := flow.SetFee(fee); err != nil {
		return nil, err
	}
	return flow, nil
}

// ID returns the unique id of this flow.
func (f *TxFlow) ID() string { return f.id }

// State returns the current lifecycle stage.
func (f *TxFlow) State() TxState {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.state
}

func (f *TxFlow) mutableDraft() error {
	if f.state != TxBuilding {
		return ErrTxMustBeBuilding
	}
	if f.frozen {
		return ErrDraftFrozen
	}
	return nil
}

// AddInput appends an input to the draft.
func (f *TxFlow) AddInput(in cardano.Input) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err := f.mutableDraft(); err != nil {
		return err
	}
	for _, existing := range f.body.Inputs {
		if existing.Equal(in) {
			return ErrDuplicateInput
		}
	}
	f.body.Inputs = append(f.body.Inputs, in)
	return nil
}

// AddOutput appends an output to the draft.
func (f *TxFlow) AddOutput(out cardano.Output) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err := f.mutableDraft(); err != nil {
		return err
	}
	f.body.Outputs = append(f.body.Outputs, out)
	return nil
}

// SetFee sets the declared fee of the draft.
func (f *TxFlow) SetFee(fee uint64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err := f.mutableDraft(); err != nil {
		return err
	}
	f.body.Fee = fee
	return nil
}

// SetTTL sets the absolute slot after which the transaction is invalid.
func (f *TxFlow) SetTTL(ttl uint64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err := f.mutableDraft(); err != nil {
		return err
	}
	f.body.TTL = &ttl
	return nil
}

// SetAuxDataHash attaches the 32-byte auxiliary data hash to the draft.
func (f *TxFlow) SetAuxDataHash(h []byte) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if err := f.mutableDraft(); err != nil {
		return err
	}
	if len(h) != 32 {
		return NewProtocolViolation("auxiliary data hash must be 32 bytes, got %d", len(h))
	}
	f.body.AuxDataHash = append([]byte(nil), h...)
	return nil
}

// Draft returns a copy of the current body.
func (f *TxFlow) Draft() cardano.TransactionBody {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.copyBody()
}

func (f *TxFlow) copyBody() cardano.TransactionBody {
	body := f.body
	body.Inputs = append([]cardano.Input(nil), f.body.Inputs...)
	body.Outputs = append([]cardano.Output(nil), f.body.Outputs...)
	if f.body.TTL != nil {
		ttl := *f.body.TTL
		body.TTL = &ttl
	}
	body.AuxDataHash = append([]byte(nil), f.body.AuxDataHash...)
	return body
}

// BeginSign freezes the draft and returns the body to be signed. A signing
// request already pending yields ErrOperationInProgress.
func (f *TxFlow) BeginSign() (cardano.TransactionBody, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.state != TxBuilding {
		return cardano.TransactionBody{}, ErrTxMustBeBuilding
	}
	if f.signing {
		return cardano.TransactionBody{}, ErrOperationInProgress
	}
	if len(f.body.Inputs) == 0 || len(f.body.Outputs) == 0 {
		return cardano.TransactionBody{}, ErrDraftIncomplete
	}

	f.signing = true
	f.frozen = true
	return f.copyBody(), nil
}

// CompleteSign attaches the witnesses returned by the wallet and moves the
// flow to Signed.
func (f *TxFlow) CompleteSign(witnesses cardano.WitnessSet) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.signing {
		return ErrTxNotSigning
	}
	f.signing = false
	f.witnesses = witnesses
	f.state = TxSigned
	return nil
}

// AbortSign reverts a signing request that could never be issued to the
// wallet, thawing the draft without failing the flow.
func (f *TxFlow) AbortSign() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.signing {
		return ErrTxNotSigning
	}
	f.signing = false
	f.frozen = false
	return nil
}

// FailSign records a rejected or failed signing request and moves the flow to
// Failed. The draft thaws so the caller may modify it and reopen the flow.
func (f *TxFlow) FailSign(reason error) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.signing {
		return ErrTxNotSigning
	}
	f.signing = false
	f.frozen = false
	f.state = TxFailed
	f.failure = reason
	return nil
}

// BeginSubmit returns the signed transaction to be submitted. Only a Signed
// flow may be submitted; a submission already pending yields
// ErrOperationInProgress.
func (f *TxFlow) BeginSubmit() (cardano.Tx, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.state != TxSigned {
		return cardano.Tx{}, ErrTxMustBeSigned
	}
	if f.submitting {
		return cardano.Tx{}, ErrOperationInProgress
	}

	f.submitting = true
	return cardano.Tx{Body: f.copyBody(), Witnesses: f.witnesses, Valid: true}, nil
}

// AbortSubmit reverts a submission request that could never be issued to the
// wallet, leaving the flow Signed.
func (f *TxFlow) AbortSubmit() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.submitting {
		return ErrTxNotSubmitting
	}
	f.submitting = false
	return nil
}

// CompleteSubmit records the network-assigned transaction id and moves the
// flow to Submitted.
func (f *TxFlow) CompleteSubmit(txID cardano.Hash32) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.submitting {
		return ErrTxNotSubmitting
	}
	f.submitting = false
	f.txID = &txID
	f.state = TxSubmitted
	return nil
}

// FailSubmit records a submission failure. The witnesses are kept: the
// signed transaction stays retrievable for manual resubmission.
func (f *TxFlow) FailSubmit(reason error) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if !f.submitting {
		return ErrTxNotSubmitting
	}
	f.submitting = false
	f.state = TxFailed
	f.failure = reason
	return nil
}

// Reopen brings a Failed flow back to Building for a retry with
// modifications. Witnesses from a previous signing are discarded since the
// body may change.
func (f *TxFlow) Reopen() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.state != TxFailed {
		return ErrTxMustBeFailed
	}
	f.state = TxBuilding
	f.frozen = false
	f.failure = nil
	f.witnesses = cardano.WitnessSet{}
	return nil
}

// SignedTx returns the signed transaction when witnesses are attached,
// including after a failed submission.
func (f *TxFlow) SignedTx() (cardano.Tx, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.witnesses.IsEmpty() {
		return cardano.Tx{}, ErrTxMustBeSigned
	}
	return cardano.Tx{Body: f.copyBody(), Witnesses: f.witnesses, Valid: true}, nil
}

// TxID returns the network-assigned transaction id once submitted.
func (f *TxFlow) TxID() (cardano.Hash32, bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.txID == nil {
		return cardano.Hash32{}, false
	}
	return *f.txID, true
}

// Failure returns the recorded failure reason, nil if none.
func (f *TxFlow) Failure() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.failure
}
