package walletregistry_test

import (
	"testing"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
	walletfake "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-fake"
	walletregistry "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-registry"
	"github.com/stretchr/testify/require"
)

func newEntry(name string) ports.DiscoveredWallet {
	return walletfake.New(walletfake.Options{Name: name}).Descriptor()
}

func TestRegistry(t *testing.T) {
	registry := walletregistry.NewRegistry()
	require.Empty(t, registry.Snapshot())

	registry.Register(newEntry("nami"))
	registry.Register(newEntry("eternl"))
	registry.Register(newEntry("lace"))

	t.Run("snapshot in stable name order", func(t *testing.T) {
		snapshot := registry.Snapshot()
		require.Len(t, snapshot, 3)
		require.Equal(t, "eternl", snapshot[0].Name)
		require.Equal(t, "lace", snapshot[1].Name)
		require.Equal(t, "nami", snapshot[2].Name)
	})

	t.Run("lookup", func(t *testing.T) {
		w, err := registry.Lookup("lace")
		require.NoError(t, err)
		require.Equal(t, "lace", w.Name)
		require.NotNil(t, w.Handle)

		_, err = registry.Lookup("ghost")
		require.ErrorIs(t, err, ports.ErrWalletNotFound)
	})

	t.Run("register replaces by name", func(t *testing.T) {
		replacement := newEntry("lace")
		registry.Register(replacement)
		require.Len(t, registry.Snapshot(), 3)
	})

	t.Run("unregister", func(t *testing.T) {
		registry.Unregister("nami")
		registry.Unregister("nami")
		require.Len(t, registry.Snapshot(), 2)

		_, err := registry.Lookup("nami")
		require.ErrorIs(t, err, ports.ErrWalletNotFound)
	})
}
