package domain_test

import (
	"crypto/rand"
	"testing"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func newDescriptor(t *testing.T, caps ...domain.Capability) domain.WalletDescriptor {
	t.Helper()
	if len(caps) == 0 {
		caps = []domain.Capability{
			domain.CapGetNetworkID, domain.CapGetBalance, domain.CapSignTx,
		}
	}
	descriptor, err := domain.NewWalletDescriptor(
		"lace", "1.0.1", "data:image/svg+xml;base64,", domain.NewCapabilitySet(caps...),
	)
	require.NoError(t, err)
	return descriptor
}

func newEnabledSession(t *testing.T, caps ...domain.Capability) *domain.Session {
	t.Helper()
	session := domain.NewSession(newDescriptor(t, caps...), "https://dapp.example")
	require.NoError(t, session.BeginEnable())
	require.NoError(t, session.CompleteEnable(session.Descriptor().Supported()))
	return session
}

func newAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{byte(network)}, randomBytes(56)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newInput(t *testing.T) cardano.Input {
	t.Helper()
	txid, err := cardano.NewHash32(randomBytes(32))
	require.NoError(t, err)
	return cardano.Input{TxID: txid, Index: 0}
}

func newOutput(t *testing.T, coin uint64) cardano.Output {
	t.Helper()
	return cardano.Output{
		Address: newAddress(t, cardano.NetworkTestnet),
		Value:   cardano.NewValue(coin),
	}
}

func newWitnesses(t *testing.T) cardano.WitnessSet {
	t.Helper()
	return cardano.WitnessSet{VKeys: []cardano.VKeyWitness{{
		VKey:      randomBytes(32),
		Signature: randomBytes(64),
	}}}
}

func newSignedFlow(t *testing.T) *domain.TxFlow {
	t.Helper()
	flow := domain.NewTxFlow()
	require.NoError(t, flow.AddInput(newInput(t)))
	require.NoError(t, flow.AddOutput(newOutput(t, 1_000_000)))
	require.NoError(t, flow.SetFee(170_000))

	_, err := flow.BeginSign()
	require.NoError(t, err)
	require.NoError(t, flow.CompleteSign(newWitnesses(t)))
	return flow
}
