package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/bridge"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/cardano-connect/go-cip30/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
)

// ConnectorService is the produced API of the connector: one instance per
// discovered wallet and requesting origin. All fallible operations return a
// typed error from the taxonomy, never panic across the boundary.
type ConnectorService interface {
	// Descriptor returns the immutable metadata of the wallet.
	Descriptor() domain.WalletDescriptor
	// IsEnabled probes for an existing authorization without prompting.
	IsEnabled(ctx context.Context) (bool, error)
	// Enable negotiates a session requesting the given capabilities; with
	// none given, everything the wallet advertises is requested.
	Enable(ctx context.Context, requested ...domain.Capability) (*domain.Session, error)
	// Disable tears the current session down.
	Disable() error
	// Session returns the current session, nil before the first Enable.
	Session() *domain.Session

	// NetworkID returns the network of the connected account, cached for the
	// session lifetime.
	NetworkID(ctx context.Context) (cardano.NetworkID, error)
	// Balance returns the total value held by the wallet.
	Balance(ctx context.Context) (cardano.Value, error)
	// Utxos lists the wallet utxos, optionally restricted to a value target
	// and paginated.
	Utxos(ctx context.Context, amount *cardano.Value, page *ports.Paginate) (*cardano.UtxoSet, error)
	// UsedAddresses lists addresses that appeared on-chain.
	UsedAddresses(ctx context.Context, page *ports.Paginate) ([]cardano.Address, error)
	// UnusedAddresses lists fresh receive addresses.
	UnusedAddresses(ctx context.Context) ([]cardano.Address, error)
	// ChangeAddress returns the address change should be sent back to.
	ChangeAddress(ctx context.Context) (cardano.Address, error)
	// RewardAddresses lists the stake reward addresses.
	RewardAddresses(ctx context.Context) ([]cardano.Address, error)
	// EnabledExtensions lists the extension names live on the session.
	EnabledExtensions(ctx context.Context) ([]string, error)

	// NewTransaction starts an empty draft.
	NewTransaction() *domain.TxFlow
	// NewSweepTransaction drafts a transaction consuming the given utxos into
	// a single output, minus the fee.
	NewSweepTransaction(utxos *cardano.UtxoSet, fee uint64, to cardano.Address) (*domain.TxFlow, error)
	// SignTransaction freezes the draft and requests witnesses.
	SignTransaction(ctx context.Context, flow *domain.TxFlow, partialSign bool) error
	// SubmitTransaction submits a signed flow and returns the transaction id.
	SubmitTransaction(ctx context.Context, flow *domain.TxFlow) (cardano.Hash32, error)
	// SignData requests an arbitrary-data signature over the payload, proving
	// control of the given address.
	SignData(ctx context.Context, addr cardano.Address, payload []byte) (cardano.DataSignature, error)
}

type connectorService struct {
	descriptor domain.WalletDescriptor
	wallet     ports.Wallet
	origin     string
	bridge     *bridge.Bridge

	mtx       sync.RWMutex
	api       ports.WalletAPI
	session   *domain.Session
	networkID *cardano.NetworkID
}

// NewConnectorService builds the connector handle for one discovered wallet.
func NewConnectorService(
	discovered ports.DiscoveredWallet, origin string, requestTimeout time.Duration,
) (ConnectorService, error) {
	if discovered.Handle == nil {
		return nil, ErrNilWalletHandle
	}
	if origin == "" {
		return nil, ErrMissingOrigin
	}

	descriptor, err := domain.NewWalletDescriptor(
		discovered.Name,
		discovered.APIVersion,
		discovered.Icon,
		domain.CapabilitySetFromNames(discovered.Extensions),
	)
	if err != nil {
		return nil, err
	}

	return &connectorService{
		descriptor: descriptor,
		wallet:     discovered.Handle,
		origin:     origin,
		bridge: bridge.New(
			requestTimeout, circuitbreaker.NewWalletBreaker(discovered.Name),
		),
	}, nil
}

func (s *connectorService) Descriptor() domain.WalletDescriptor {
	return s.descriptor
}

func (s *connectorService) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.bridge.Call(ctx, "isEnabled", func(ctx context.Context) error {
		var err error
		enabled, err = s.wallet.IsEnabled(ctx)
		return err
	})
	if err != nil {
		return false, s.translateCallErr(err)
	}
	return enabled, nil
}

func (s *connectorService) Enable(
	ctx context.Context, requested ...domain.Capability,
) (*domain.Session, error) {
	advertised := s.descriptor.Supported()
	toRequest := domain.NewCapabilitySet(requested...)
	if len(requested) == 0 {
		toRequest = advertised
	}
	if len(toRequest) == 0 {
		return nil, ErrNoCapabilities
	}

	s.mtx.Lock()
	if s.session != nil && s.session.State() == domain.SessionEnabling {
		s.mtx.Unlock()
		return nil, domain.ErrOperationInProgress
	}
	// every attempt negotiates from scratch; a session that failed or was
	// disabled earlier stays around only for the caller to inspect
	session := domain.NewSession(s.descriptor, s.origin)
	if err := session.BeginEnable(); err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	s.session = session
	s.mtx.Unlock()

	var api ports.WalletAPI
	var granted domain.CapabilitySet
	err := s.bridge.CallExclusive(ctx, "enable", func(ctx context.Context) error {
		negotiated, err := s.wallet.Enable(ctx, toRequest.Names())
		if err != nil {
			return err
		}

		// the wallet reports what it actually granted, which may be a
		// subset of what was requested
		names, err := negotiated.GetExtensions(ctx)
		if err != nil {
			return err
		}

		api = negotiated
		granted = domain.CapabilitySetFromNames(names)
		return nil
	})
	if err != nil {
		if errors.Is(err, bridge.ErrBusy) {
			// another prompt-bound request holds the wallet; nothing ever
			// reached it, so the attempt fails without a negotiation verdict
			_ = session.FailEnable(domain.ErrOperationInProgress)
			return nil, domain.ErrOperationInProgress
		}
		negErr := negotiationError(err)
		_ = session.FailEnable(negErr)
		log.WithError(negErr).Debugf("enable failed for wallet %s", s.descriptor.Name())
		return nil, negErr
	}

	if err := session.CompleteEnable(granted); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	s.api = api
	s.networkID = nil
	s.mtx.Unlock()

	log.Debugf(
		"enabled wallet %s for origin %s with capabilities %v",
		s.descriptor.Name(), s.origin, granted.Names(),
	)
	return session, nil
}

func (s *connectorService) Disable() error {
	session := s.currentSession()
	if session == nil {
		return domain.ErrSessionNotActive
	}
	if err := session.Disable(); err != nil {
		return err
	}

	s.mtx.Lock()
	s.api = nil
	s.networkID = nil
	s.mtx.Unlock()
	return nil
}

func (s *connectorService) Session() *domain.Session {
	return s.currentSession()
}

func (s *connectorService) currentSession() *domain.Session {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.session
}

// activeAPI fails fast when no enabled session exists, and gates the given
// capability before anything reaches the bridge.
func (s *connectorService) activeAPI(c domain.Capability) (ports.WalletAPI, error) {
	s.mtx.RLock()
	session, api := s.session, s.api
	s.mtx.RUnlock()

	if session == nil || api == nil {
		return nil, domain.ErrSessionNotActive
	}
	if err := session.EnsureActive(); err != nil {
		return nil, err
	}
	if err := session.Registry().Require(c); err != nil {
		return nil, err
	}
	return api, nil
}
