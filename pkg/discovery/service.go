package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const eventQueueMaxSize = 100

// Service watches a wallet registry and emits an event whenever a wallet
// appears, disappears, or changes what it advertises. Use Start and Stop to
// manage it.
type Service interface {
	Start()
	Stop()
	GetEventChannel() chan Event
}

// Opts defines the parameters needed for creating a watcher with NewService.
type Opts struct {
	Registry ports.WalletRegistry
	// Interval between two registry scans.
	Interval time.Duration
	// Burst allows this many back-to-back scans before the limiter kicks in.
	// Defaults to 1.
	Burst int
}

type watcher struct {
	registry ports.WalletRegistry
	limiter  *rate.Limiter

	eventChan chan Event
	seen      map[string]ports.DiscoveredWallet

	mutex    sync.Mutex
	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewService returns a watcher ready to poll the given registry.
func NewService(opts Opts) Service {
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return &watcher{
		registry:  opts.Registry,
		limiter:   rate.NewLimiter(rate.Every(opts.Interval), burst),
		eventChan: make(chan Event, eventQueueMaxSize),
		seen:      map[string]ports.DiscoveredWallet{},
	}
}

// Start begins scanning. The first scan reports every wallet already present
// as WalletAdded, so a consumer needs no separate initial listing.
func (w *watcher) Start() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.loop(ctx)
}

// Stop ends scanning and closes the event channel. A QuitEvent is emitted
// first when the queue has room; a consumer that stopped draining still sees
// the channel close.
func (w *watcher) Stop() {
	w.mutex.Lock()
	cancel, done := w.cancel, w.done
	w.mutex.Unlock()
	if cancel == nil {
		return
	}

	w.stopOnce.Do(func() {
		cancel()
		<-done
		w.emit(QuitEvent{})
		close(w.eventChan)
	})
}

// GetEventChannel returns the channel the watcher emits on.
func (w *watcher) GetEventChannel() chan Event {
	return w.eventChan
}

func (w *watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		w.scan()
	}
}

func (w *watcher) scan() {
	snapshot := w.registry.Snapshot()

	current := make(map[string]ports.DiscoveredWallet, len(snapshot))
	for _, wallet := range snapshot {
		current[wallet.Name] = wallet

		prev, ok := w.seen[wallet.Name]
		if !ok {
			log.Debugf("discovered wallet %s", wallet.Name)
			w.emit(WalletEvent{EventType: WalletAdded, Wallet: wallet})
			continue
		}
		if descriptorChanged(prev, wallet) {
			w.emit(WalletEvent{EventType: WalletChanged, Wallet: wallet})
		}
	}

	for name, wallet := range w.seen {
		if _, ok := current[name]; !ok {
			log.Debugf("wallet %s left the registry", name)
			w.emit(WalletEvent{EventType: WalletRemoved, Wallet: wallet})
		}
	}

	w.seen = current
}

func (w *watcher) emit(event Event) {
	select {
	case w.eventChan <- event:
	default:
		log.Warn("discovery event queue full, dropping event")
	}
}

func descriptorChanged(a, b ports.DiscoveredWallet) bool {
	if a.APIVersion != b.APIVersion || a.Icon != b.Icon {
		return true
	}
	return strings.Join(a.Extensions, ",") != strings.Join(b.Extensions, ",")
}
