package domain_test

import (
	"testing"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

func TestTxFlowDraft(t *testing.T) {
	flow := domain.NewTxFlow()
	require.Equal(t, domain.TxBuilding, flow.State())

	in := newInput(t)
	require.NoError(t, flow.AddInput(in))
	require.NoError(t, flow.AddOutput(newOutput(t, 2_000_000)))
	require.NoError(t, flow.SetFee(170_000))
	require.NoError(t, flow.SetTTL(99_000_000))
	require.NoError(t, flow.SetAuxDataHash(randomBytes(32)))

	draft := flow.Draft()
	require.Len(t, draft.Inputs, 1)
	require.Len(t, draft.Outputs, 1)
	require.Equal(t, uint64(170_000), draft.Fee)
	require.NotNil(t, draft.TTL)

	t.Run("duplicate input rejected", func(t *testing.T) {
		require.ErrorIs(t, flow.AddInput(in), domain.ErrDuplicateInput)
	})

	t.Run("short aux hash rejected", func(t *testing.T) {
		require.Error(t, flow.SetAuxDataHash(randomBytes(8)))
	})

	t.Run("draft copies are independent", func(t *testing.T) {
		draft.Fee = 1
		require.Equal(t, uint64(170_000), flow.Draft().Fee)
	})
}

func TestTxFlowSign(t *testing.T) {
	flow := domain.NewTxFlow()
	require.NoError(t, flow.AddInput(newInput(t)))
	require.NoError(t, flow.AddOutput(newOutput(t, 1_000_000)))

	body, err := flow.BeginSign()
	require.NoError(t, err)
	require.Len(t, body.Inputs, 1)

	t.Run("frozen while pending", func(t *testing.T) {
		require.ErrorIs(t, flow.AddInput(newInput(t)), domain.ErrDraftFrozen)
		require.ErrorIs(t, flow.SetFee(1), domain.ErrDraftFrozen)
	})

	t.Run("second request while pending", func(t *testing.T) {
		_, err := flow.BeginSign()
		require.ErrorIs(t, err, domain.ErrOperationInProgress)
	})

	require.NoError(t, flow.CompleteSign(newWitnesses(t)))
	require.Equal(t, domain.TxSigned, flow.State())

	t.Run("signed body no longer mutable", func(t *testing.T) {
		require.ErrorIs(t, flow.SetFee(1), domain.ErrTxMustBeBuilding)
	})

	t.Run("signed transaction retrievable", func(t *testing.T) {
		tx, err := flow.SignedTx()
		require.NoError(t, err)
		require.False(t, tx.Witnesses.IsEmpty())
	})
}

func TestTxFlowSignIncompleteDraft(t *testing.T) {
	flow := domain.NewTxFlow()
	_, err := flow.BeginSign()
	require.ErrorIs(t, err, domain.ErrDraftIncomplete)

	require.NoError(t, flow.AddInput(newInput(t)))
	_, err = flow.BeginSign()
	require.ErrorIs(t, err, domain.ErrDraftIncomplete)
}

func TestTxFlowAbortSign(t *testing.T) {
	flow := domain.NewTxFlow()
	require.NoError(t, flow.AddInput(newInput(t)))
	require.NoError(t, flow.AddOutput(newOutput(t, 1_000_000)))

	_, err := flow.BeginSign()
	require.NoError(t, err)
	require.NoError(t, flow.AbortSign())

	// nothing reached the wallet, the flow is back where it started
	require.Equal(t, domain.TxBuilding, flow.State())
	require.NoError(t, flow.SetFee(200_000))
	require.ErrorIs(t, flow.AbortSign(), domain.ErrTxNotSigning)
}

func TestTxFlowFailSign(t *testing.T) {
	flow := domain.NewTxFlow()
	require.NoError(t, flow.AddInput(newInput(t)))
	require.NoError(t, flow.AddOutput(newOutput(t, 1_000_000)))

	_, err := flow.BeginSign()
	require.NoError(t, err)
	require.NoError(t, flow.FailSign(domain.ErrCancelled))
	require.Equal(t, domain.TxFailed, flow.State())
	require.ErrorIs(t, flow.Failure(), domain.ErrCancelled)

	t.Run("reopen thaws the draft", func(t *testing.T) {
		require.NoError(t, flow.Reopen())
		require.Equal(t, domain.TxBuilding, flow.State())
		require.Nil(t, flow.Failure())
		require.NoError(t, flow.SetFee(180_000))
	})
}

func TestTxFlowSubmit(t *testing.T) {
	flow := newSignedFlow(t)

	tx, err := flow.BeginSubmit()
	require.NoError(t, err)
	require.False(t, tx.Witnesses.IsEmpty())

	t.Run("second request while pending", func(t *testing.T) {
		_, err := flow.BeginSubmit()
		require.ErrorIs(t, err, domain.ErrOperationInProgress)
	})

	txID, err := tx.Body.Hash()
	require.NoError(t, err)
	require.NoError(t, flow.CompleteSubmit(txID))
	require.Equal(t, domain.TxSubmitted, flow.State())

	got, ok := flow.TxID()
	require.True(t, ok)
	require.Equal(t, txID, got)
}

func TestTxFlowSubmitFromBuilding(t *testing.T) {
	flow := domain.NewTxFlow()
	require.NoError(t, flow.AddInput(newInput(t)))
	require.NoError(t, flow.AddOutput(newOutput(t, 1_000_000)))

	_, err := flow.BeginSubmit()
	require.ErrorIs(t, err, domain.ErrTxMustBeSigned)
}

func TestTxFlowFailSubmitKeepsWitnesses(t *testing.T) {
	flow := newSignedFlow(t)

	_, err := flow.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, flow.FailSubmit(domain.ErrTimedOut))
	require.Equal(t, domain.TxFailed, flow.State())

	// the signed transaction survives for manual resubmission
	tx, err := flow.SignedTx()
	require.NoError(t, err)
	require.False(t, tx.Witnesses.IsEmpty())

	t.Run("reopen discards witnesses", func(t *testing.T) {
		require.NoError(t, flow.Reopen())
		_, err := flow.SignedTx()
		require.ErrorIs(t, err, domain.ErrTxMustBeSigned)
	})
}

func TestNewSweepFlow(t *testing.T) {
	addr := newAddress(t, cardano.NetworkTestnet)

	newSet := func(t *testing.T, coins ...uint64) *cardano.UtxoSet {
		t.Helper()
		set := &cardano.UtxoSet{}
		for _, coin := range coins {
			require.NoError(t, set.Add(cardano.Utxo{
				Input:  newInput(t),
				Output: cardano.Output{Address: newAddress(t, cardano.NetworkTestnet), Value: cardano.NewValue(coin)},
			}))
		}
		return set
	}

	t.Run("sweeps everything minus fee", func(t *testing.T) {
		set := newSet(t, 3_000_000, 2_000_000)

		flow, err := domain.NewSweepFlow(set, 170_000, addr)
		require.NoError(t, err)

		draft := flow.Draft()
		require.Len(t, draft.Inputs, 2)
		require.Len(t, draft.Outputs, 1)
		require.Equal(t, uint64(4_830_000), draft.Outputs[0].Value.Coin)
		require.Equal(t, uint64(170_000), draft.Fee)
	})

	t.Run("fee exceeding total", func(t *testing.T) {
		set := newSet(t, 100_000)
		_, err := domain.NewSweepFlow(set, 170_000, addr)
		require.ErrorIs(t, err, domain.ErrCannotPayFee)
	})

	t.Run("network mismatch", func(t *testing.T) {
		set := newSet(t, 3_000_000)
		mainnetAddr := newAddress(t, cardano.NetworkMainnet)

		_, err := domain.NewSweepFlow(set, 100_000, mainnetAddr)
		require.Error(t, err)

		var violation *domain.ProtocolViolationError
		require.ErrorAs(t, err, &violation)
	})
}
