package application

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/cardano-connect/go-cip30/internal/core/domain"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/bridge"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	log "github.com/sirupsen/logrus"
)

func (s *connectorService) NewTransaction() *domain.TxFlow {
	return domain.NewTxFlow()
}

func (s *connectorService) NewSweepTransaction(
	utxos *cardano.UtxoSet, fee uint64, to cardano.Address,
) (*domain.TxFlow, error) {
	return domain.NewSweepFlow(utxos, fee, to)
}

func (s *connectorService) SignTransaction(
	ctx context.Context, flow *domain.TxFlow, partialSign bool,
) error {
	api, err := s.activeAPI(domain.CapSignTx)
	if err != nil {
		return err
	}

	body, err := flow.BeginSign()
	if err != nil {
		return err
	}
	bodyHex, err := body.EncodeHex()
	if err != nil {
		_ = flow.AbortSign()
		return err
	}

	var witnessHex string
	err = s.bridge.CallExclusive(ctx, "signTx", func(ctx context.Context) error {
		var err error
		witnessHex, err = api.SignTx(ctx, bodyHex, partialSign)
		return err
	})
	if err != nil {
		if errors.Is(err, bridge.ErrBusy) {
			// nothing reached the wallet, the draft thaws for a plain retry
			_ = flow.AbortSign()
			return domain.ErrOperationInProgress
		}
		translated := s.translateCallErr(err)
		_ = flow.FailSign(translated)
		log.WithError(translated).Debugf("signing failed for flow %s", flow.ID())
		return translated
	}

	witnesses, err := cardano.DecodeWitnessSetHex(witnessHex)
	if err != nil {
		_ = flow.FailSign(err)
		return err
	}
	if witnesses.IsEmpty() {
		violation := domain.NewProtocolViolation("%v", ErrEmptyWitnessSet)
		_ = flow.FailSign(violation)
		return violation
	}

	return flow.CompleteSign(witnesses)
}

func (s *connectorService) SubmitTransaction(
	ctx context.Context, flow *domain.TxFlow,
) (cardano.Hash32, error) {
	api, err := s.activeAPI(domain.CapSubmitTx)
	if err != nil {
		return cardano.Hash32{}, err
	}

	tx, err := flow.BeginSubmit()
	if err != nil {
		return cardano.Hash32{}, err
	}
	txHex, err := tx.EncodeHex()
	if err != nil {
		_ = flow.AbortSubmit()
		return cardano.Hash32{}, err
	}

	var txIDHex string
	err = s.bridge.CallExclusive(ctx, "submitTx", func(ctx context.Context) error {
		var err error
		txIDHex, err = api.SubmitTx(ctx, txHex)
		return err
	})
	if err != nil {
		if errors.Is(err, bridge.ErrBusy) {
			_ = flow.AbortSubmit()
			return cardano.Hash32{}, domain.ErrOperationInProgress
		}
		// the transaction is signed and stays retrievable from the flow for
		// manual resubmission
		translated := s.translateCallErr(err)
		_ = flow.FailSubmit(translated)
		log.WithError(translated).Debugf("submission failed for flow %s", flow.ID())
		return cardano.Hash32{}, translated
	}

	txID, err := cardano.NewHash32FromHex(txIDHex)
	if err != nil {
		violation := domain.NewProtocolViolation(
			"wallet returned an invalid transaction id %q", txIDHex,
		)
		_ = flow.FailSubmit(violation)
		return cardano.Hash32{}, violation
	}

	if computed, err := tx.Body.Hash(); err == nil && computed != txID {
		violation := domain.NewProtocolViolation(
			"wallet returned transaction id %s, body hashes to %s", txID, computed,
		)
		_ = flow.FailSubmit(violation)
		return cardano.Hash32{}, violation
	}

	if err := flow.CompleteSubmit(txID); err != nil {
		return cardano.Hash32{}, err
	}
	return txID, nil
}

func (s *connectorService) SignData(
	ctx context.Context, addr cardano.Address, payload []byte,
) (cardano.DataSignature, error) {
	api, err := s.activeAPI(domain.CapSignData)
	if err != nil {
		return cardano.DataSignature{}, err
	}
	if err := s.checkAddressNetwork(ctx, addr); err != nil {
		return cardano.DataSignature{}, err
	}

	var raw ports.DataSignature
	err = s.bridge.CallExclusive(ctx, "signData", func(ctx context.Context) error {
		var err error
		raw, err = api.SignData(ctx, addr.Hex(), hex.EncodeToString(payload))
		return err
	})
	if err != nil {
		if errors.Is(err, bridge.ErrBusy) {
			return cardano.DataSignature{}, domain.ErrOperationInProgress
		}
		return cardano.DataSignature{}, s.translateCallErr(err)
	}

	return cardano.DecodeDataSignature(raw.Signature, raw.Key)
}
