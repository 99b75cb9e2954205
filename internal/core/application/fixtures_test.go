package application_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cardano-connect/go-cip30/internal/core/application"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	walletfake "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-fake"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://dapp.example"

var allExtensions = []string{
	"getNetworkId", "getUtxos", "getBalance", "getUsedAddresses",
	"getUnusedAddresses", "getChangeAddress", "getRewardAddresses",
	"signTx", "signData", "submitTx",
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func newAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{byte(network)}, randomBytes(56)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newRewardAddress(t *testing.T, network cardano.NetworkID) cardano.Address {
	t.Helper()
	raw := append([]byte{0xe0 | byte(network)}, randomBytes(28)...)
	addr, err := cardano.DecodeAddress(raw)
	require.NoError(t, err)
	return addr
}

func newUtxoHex(t *testing.T, network cardano.NetworkID, coin uint64) string {
	t.Helper()
	txid, err := cardano.NewHash32(randomBytes(32))
	require.NoError(t, err)

	raw, err := cardano.Utxo{
		Input: cardano.Input{TxID: txid, Index: 0},
		Output: cardano.Output{
			Address: newAddress(t, network),
			Value:   cardano.NewValue(coin),
		},
	}.Encode()
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func witnessSetHex(t *testing.T) string {
	t.Helper()
	raw, err := cardano.WitnessSet{VKeys: []cardano.VKeyWitness{{
		VKey:      randomBytes(32),
		Signature: randomBytes(64),
	}}}.Encode()
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func defaultFakeOptions(t *testing.T) walletfake.Options {
	t.Helper()
	return walletfake.Options{
		Name:       "fake",
		APIVersion: "0.1.0",
		Extensions: allExtensions,
		NetworkID:  int(cardano.NetworkTestnet),
		Utxos: []string{
			newUtxoHex(t, cardano.NetworkTestnet, 2_000_000),
			newUtxoHex(t, cardano.NetworkTestnet, 3_000_000),
		},
		UsedAddresses:   []string{newAddress(t, cardano.NetworkTestnet).Hex()},
		UnusedAddresses: []string{newAddress(t, cardano.NetworkTestnet).Hex()},
		RewardAddresses: []string{newRewardAddress(t, cardano.NetworkTestnet).Hex()},
		ChangeAddress:   newAddress(t, cardano.NetworkTestnet).Hex(),
	}
}

func newService(
	t *testing.T, opts walletfake.Options,
) (application.ConnectorService, *walletfake.Wallet) {
	t.Helper()
	wallet := walletfake.New(opts)
	svc, err := application.NewConnectorService(
		wallet.Descriptor(), testOrigin, time.Minute,
	)
	require.NoError(t, err)
	return svc, wallet
}

func newEnabledService(
	t *testing.T, opts walletfake.Options,
) (application.ConnectorService, *walletfake.Wallet) {
	t.Helper()
	svc, wallet := newService(t, opts)
	_, err := svc.Enable(context.Background())
	require.NoError(t, err)
	return svc, wallet
}

// blockingWallet parks the first enable call forever, simulating a user who
// never answers the prompt. Later calls are served by the inner fake.
type blockingWallet struct {
	inner   *walletfake.Wallet
	started chan struct{}
	calls   int32
}

func newBlockingWallet(t *testing.T, opts walletfake.Options) *blockingWallet {
	t.Helper()
	return &blockingWallet{
		inner:   walletfake.New(opts),
		started: make(chan struct{}),
	}
}

func (w *blockingWallet) descriptor() ports.DiscoveredWallet {
	d := w.inner.Descriptor()
	d.Handle = w
	return d
}

func (w *blockingWallet) IsEnabled(ctx context.Context) (bool, error) {
	return w.inner.IsEnabled(ctx)
}

func (w *blockingWallet) Enable(ctx context.Context, extensions []string) (ports.WalletAPI, error) {
	if atomic.AddInt32(&w.calls, 1) == 1 {
		close(w.started)
		select {} // never resolves
	}
	return w.inner.Enable(ctx, extensions)
}
