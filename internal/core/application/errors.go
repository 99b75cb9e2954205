package application

import (
	"errors"
	"strings"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/bridge"
)

var (
	// ErrNilWalletHandle ...
	ErrNilWalletHandle = errors.New("wallet handle must not be nil")
	// ErrMissingOrigin ...
	ErrMissingOrigin = errors.New("requesting origin must not be empty")
	// ErrNoCapabilities is returned when enabling with an empty advertised and
	// requested capability set: a session granting nothing is useless.
	ErrNoCapabilities = errors.New("no capabilities to negotiate")
	// ErrUnreachableAmount is returned by a filtered utxo listing when the
	// wallet cannot assemble the requested value target.
	ErrUnreachableAmount = errors.New("wallet cannot reach the requested value target")
	// ErrEmptyWitnessSet is the protocol violation detail for a wallet
	// claiming success on signTx while returning no witnesses.
	ErrEmptyWitnessSet = errors.New("wallet returned an empty witness set")
)

// translateCallErr maps request-level bridge failures onto the domain
// sentinels and spots an account change, which invalidates the session.
// Wallet-side and decode errors pass through unchanged.
func (s *connectorService) translateCallErr(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, bridge.ErrBusy):
		return domain.ErrOperationInProgress
	case errors.Is(err, bridge.ErrCancelled):
		return domain.ErrCancelled
	case errors.Is(err, bridge.ErrTimedOut):
		return domain.ErrTimedOut
	}

	var apiErr *ports.APIError
	if errors.As(err, &apiErr) && apiErr.Code == ports.APIErrAccountChange {
		if session := s.currentSession(); session != nil {
			session.Invalidate(domain.ErrAccountChanged)
		}
		return domain.ErrAccountChanged
	}

	return err
}

// negotiationError classifies an enable failure. The wallet-side vocabulary
// is numeric: Refused covers both an explicit decline and a locked wallet,
// the info string tells them apart when the wallet bothers to say.
func negotiationError(err error) *domain.NegotiationError {
	switch {
	case errors.Is(err, bridge.ErrCancelled):
		return &domain.NegotiationError{Reason: domain.NegotiationCancelled}
	case errors.Is(err, bridge.ErrTimedOut):
		return &domain.NegotiationError{Reason: domain.NegotiationTimedOut}
	}

	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ports.APIErrRefused:
			// the numeric vocabulary does not discriminate a locked wallet
			// from an explicit decline, only the info string does
			reason := domain.NegotiationUserDeclined
			if strings.Contains(strings.ToLower(apiErr.Info), "locked") {
				reason = domain.NegotiationWalletLocked
			}
			return &domain.NegotiationError{Reason: reason, Info: apiErr.Info}
		case ports.APIErrInvalidRequest:
			return &domain.NegotiationError{
				Reason: domain.NegotiationUnsupportedExtension, Info: apiErr.Info,
			}
		}
		return &domain.NegotiationError{
			Reason: domain.NegotiationInternal, Info: apiErr.Info,
		}
	}

	return &domain.NegotiationError{
		Reason: domain.NegotiationInternal, Info: err.Error(),
	}
}
