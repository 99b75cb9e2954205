package application

import (
	"context"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"golang.org/x/sync/errgroup"
)

func (s *connectorService) NetworkID(ctx context.Context) (cardano.NetworkID, error) {
	s.mtx.RLock()
	cached := s.networkID
	s.mtx.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	api, err := s.activeAPI(domain.CapGetNetworkID)
	if err != nil {
		return 0, err
	}

	var wire int
	if err := s.bridge.Call(ctx, "getNetworkId", func(ctx context.Context) error {
		var err error
		wire, err = api.GetNetworkID(ctx)
		return err
	}); err != nil {
		return 0, s.translateCallErr(err)
	}

	id, err := cardano.NetworkIDFromWire(wire)
	if err != nil {
		return 0, err
	}

	// immutable for the rest of the session; an account change invalidates
	// the whole session, never just the cached id
	s.mtx.Lock()
	s.networkID = &id
	s.mtx.Unlock()
	return id, nil
}

func (s *connectorService) Balance(ctx context.Context) (cardano.Value, error) {
	api, err := s.activeAPI(domain.CapGetBalance)
	if err != nil {
		return cardano.Value{}, err
	}

	var raw string
	if err := s.bridge.Call(ctx, "getBalance", func(ctx context.Context) error {
		var err error
		raw, err = api.GetBalance(ctx)
		return err
	}); err != nil {
		return cardano.Value{}, s.translateCallErr(err)
	}

	return cardano.DecodeValueHex(raw)
}

func (s *connectorService) Utxos(
	ctx context.Context, amount *cardano.Value, page *ports.Paginate,
) (*cardano.UtxoSet, error) {
	api, err := s.activeAPI(domain.CapGetUtxos)
	if err != nil {
		return nil, err
	}

	var amountHex *string
	if amount != nil {
		encoded, err := amount.EncodeHex()
		if err != nil {
			return nil, err
		}
		amountHex = &encoded
	}

	// the utxo listing and the session network id are independent calls, so
	// fetch them concurrently; the network id is needed for the cross-check
	// below and is cached after the first query anyway
	var rawUtxos []string
	var netID cardano.NetworkID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.bridge.Call(gctx, "getUtxos", func(ctx context.Context) error {
			var err error
			rawUtxos, err = api.GetUtxos(ctx, amountHex, page)
			return err
		})
	})
	g.Go(func() error {
		var err error
		netID, err = s.NetworkID(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.translateCallErr(err)
	}

	if rawUtxos == nil && amount != nil {
		// the wallet cannot reach the requested target; by contract that is
		// a nil listing, distinct from owning no utxos at all
		return nil, ErrUnreachableAmount
	}

	set := &cardano.UtxoSet{}
	for _, raw := range rawUtxos {
		utxo, err := cardano.DecodeUtxoHex(raw)
		if err != nil {
			return nil, err
		}
		if net, ok := utxo.Output.Address.Network(); ok && net != netID {
			return nil, domain.NewProtocolViolation(
				"utxo %s:%d claims network %s, session is on %s",
				utxo.Input.TxID, utxo.Input.Index, net, netID,
			)
		}
		if err := set.Add(utxo); err != nil {
			return nil, domain.NewProtocolViolation(
				"wallet returned duplicate outpoint %s:%d",
				utxo.Input.TxID, utxo.Input.Index,
			)
		}
	}
	return set, nil
}

func (s *connectorService) UsedAddresses(
	ctx context.Context, page *ports.Paginate,
) ([]cardano.Address, error) {
	return s.addressListing(
		ctx, domain.CapGetUsedAddresses, "getUsedAddresses",
		func(ctx context.Context, api ports.WalletAPI) ([]string, error) {
			return api.GetUsedAddresses(ctx, page)
		},
	)
}

func (s *connectorService) UnusedAddresses(ctx context.Context) ([]cardano.Address, error) {
	return s.addressListing(
		ctx, domain.CapGetUnusedAddresses, "getUnusedAddresses",
		func(ctx context.Context, api ports.WalletAPI) ([]string, error) {
			return api.GetUnusedAddresses(ctx)
		},
	)
}

func (s *connectorService) RewardAddresses(ctx context.Context) ([]cardano.Address, error) {
	addrs, err := s.addressListing(
		ctx, domain.CapGetRewardAddresses, "getRewardAddresses",
		func(ctx context.Context, api ports.WalletAPI) ([]string, error) {
			return api.GetRewardAddresses(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		if !addr.IsReward() {
			return nil, domain.NewProtocolViolation(
				"address %s returned by getRewardAddresses is not a reward address", addr,
			)
		}
	}
	return addrs, nil
}

func (s *connectorService) ChangeAddress(ctx context.Context) (cardano.Address, error) {
	api, err := s.activeAPI(domain.CapGetChangeAddress)
	if err != nil {
		return cardano.Address{}, err
	}

	var raw string
	if err := s.bridge.Call(ctx, "getChangeAddress", func(ctx context.Context) error {
		var err error
		raw, err = api.GetChangeAddress(ctx)
		return err
	}); err != nil {
		return cardano.Address{}, s.translateCallErr(err)
	}

	addr, err := cardano.DecodeAddressHex(raw)
	if err != nil {
		return cardano.Address{}, err
	}
	if err := s.checkAddressNetwork(ctx, addr); err != nil {
		return cardano.Address{}, err
	}
	return addr, nil
}

func (s *connectorService) EnabledExtensions(ctx context.Context) ([]string, error) {
	s.mtx.RLock()
	session, api := s.session, s.api
	s.mtx.RUnlock()

	if session == nil || api == nil {
		return nil, domain.ErrSessionNotActive
	}
	if err := session.EnsureActive(); err != nil {
		return nil, err
	}

	var names []string
	if err := s.bridge.Call(ctx, "getExtensions", func(ctx context.Context) error {
		var err error
		names, err = api.GetExtensions(ctx)
		return err
	}); err != nil {
		return nil, s.translateCallErr(err)
	}
	return names, nil
}

// addressListing factors the shared decode-and-validate path of the address
// getters.
func (s *connectorService) addressListing(
	ctx context.Context,
	c domain.Capability,
	op string,
	fetch func(context.Context, ports.WalletAPI) ([]string, error),
) ([]cardano.Address, error) {
	api, err := s.activeAPI(c)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := s.bridge.Call(ctx, op, func(ctx context.Context) error {
		var err error
		raw, err = fetch(ctx, api)
		return err
	}); err != nil {
		return nil, s.translateCallErr(err)
	}

	addrs := make([]cardano.Address, 0, len(raw))
	for _, r := range raw {
		addr, err := cardano.DecodeAddressHex(r)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}

	netID, err := s.NetworkID(ctx)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		if net, ok := addr.Network(); ok && net != netID {
			return nil, domain.NewProtocolViolation(
				"address %s claims network %s, session is on %s", addr, net, netID,
			)
		}
	}
	return addrs, nil
}

func (s *connectorService) checkAddressNetwork(ctx context.Context, addr cardano.Address) error {
	net, ok := addr.Network()
	if !ok {
		return nil
	}
	netID, err := s.NetworkID(ctx)
	if err != nil {
		return err
	}
	if net != netID {
		return domain.NewProtocolViolation(
			"address %s claims network %s, session is on %s", addr, net, netID,
		)
	}
	return nil
}
