package discovery_test

import (
	"fmt"
	"testing"
	"time"

	walletfake "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-fake"
	walletregistry "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-registry"
	"github.com/cardano-connect/go-cip30/pkg/discovery"
	"github.com/stretchr/testify/require"
)

func nextWalletEvent(t *testing.T, ch chan discovery.Event) discovery.WalletEvent {
	t.Helper()
	select {
	case event := <-ch:
		walletEvent, ok := event.(discovery.WalletEvent)
		require.True(t, ok, "expected a WalletEvent, got %T", event)
		return walletEvent
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a discovery event")
		return discovery.WalletEvent{}
	}
}

func TestWatcher(t *testing.T) {
	registry := walletregistry.NewRegistry()
	registry.Register(walletfake.New(walletfake.Options{Name: "nami"}).Descriptor())

	svc := discovery.NewService(discovery.Opts{
		Registry: registry,
		Interval: 5 * time.Millisecond,
	})
	svc.Start()
	events := svc.GetEventChannel()

	t.Run("initial scan reports existing wallets", func(t *testing.T) {
		event := nextWalletEvent(t, events)
		require.Equal(t, discovery.WalletAdded, event.Type())
		require.Equal(t, "nami", event.Wallet.Name)
	})

	t.Run("late registration is noticed", func(t *testing.T) {
		registry.Register(walletfake.New(walletfake.Options{Name: "lace"}).Descriptor())

		event := nextWalletEvent(t, events)
		require.Equal(t, discovery.WalletAdded, event.Type())
		require.Equal(t, "lace", event.Wallet.Name)
	})

	t.Run("removal is noticed", func(t *testing.T) {
		registry.Unregister("nami")

		event := nextWalletEvent(t, events)
		require.Equal(t, discovery.WalletRemoved, event.Type())
		require.Equal(t, "nami", event.Wallet.Name)
	})

	t.Run("stop emits quit and closes the channel", func(t *testing.T) {
		svc.Stop()

		for event := range events {
			if event.Type() == discovery.Quit {
				return
			}
		}
		t.Fatal("channel closed without a quit event")
	})
}

func TestStopWithSaturatedQueue(t *testing.T) {
	registry := walletregistry.NewRegistry()
	for i := 0; i < 150; i++ {
		name := fmt.Sprintf("wallet-%03d", i)
		registry.Register(walletfake.New(walletfake.Options{Name: name}).Descriptor())
	}

	svc := discovery.NewService(discovery.Opts{
		Registry: registry,
		Interval: 5 * time.Millisecond,
	})
	svc.Start()
	events := svc.GetEventChannel()

	// nobody drains, the first scan fills the queue to capacity
	require.Eventually(t, func() bool {
		return len(events) == cap(events)
	}, 2*time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		svc.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a full event queue")
	}

	// the channel still closes so a ranging consumer terminates
	for range events {
	}
}

func TestWatcherDescriptorChange(t *testing.T) {
	registry := walletregistry.NewRegistry()
	registry.Register(
		walletfake.New(walletfake.Options{Name: "nami", APIVersion: "1.0.0"}).Descriptor(),
	)

	svc := discovery.NewService(discovery.Opts{
		Registry: registry,
		Interval: 5 * time.Millisecond,
	})
	svc.Start()
	defer svc.Stop()
	events := svc.GetEventChannel()

	added := nextWalletEvent(t, events)
	require.Equal(t, discovery.WalletAdded, added.Type())

	registry.Register(
		walletfake.New(walletfake.Options{Name: "nami", APIVersion: "2.0.0"}).Descriptor(),
	)

	changed := nextWalletEvent(t, events)
	require.Equal(t, discovery.WalletChanged, changed.Type())
	require.Equal(t, "2.0.0", changed.Wallet.APIVersion)
}
