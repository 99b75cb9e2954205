package ports

import (
	"context"
	"fmt"
)

// Paginate limits a listing call to page `Page` of `Limit` items each. Pages
// keep a stable total ordering for a given wallet snapshot; a wallet being
// modified between pages makes results eventually visible, not atomic.
type Paginate struct {
	Page  int
	Limit int
}

// DataSignature is the raw signData result: hex-encoded COSE envelope parts.
type DataSignature struct {
	Signature string
	Key       string
}

// Wallet is the call surface a discovered wallet exposes before a session is
// negotiated. All values crossing it are the untyped, hex-of-CBOR strings of
// the browser protocol; decoding into domain entities happens above.
type Wallet interface {
	// IsEnabled probes for an existing authorization without prompting the
	// user. Side-effect free.
	IsEnabled(ctx context.Context) (bool, error)
	// Enable performs the handshake, prompting the user on first connect, and
	// returns the negotiated API surface.
	Enable(ctx context.Context, extensions []string) (WalletAPI, error)
}

// WalletAPI is the call surface of an enabled session.
type WalletAPI interface {
	GetExtensions(ctx context.Context) ([]string, error)
	GetNetworkID(ctx context.Context) (int, error)
	// GetUtxos returns hex-encoded utxos. A non-nil amount restricts the
	// result to utxos reaching that value target; nil is returned when the
	// target cannot be met.
	GetUtxos(ctx context.Context, amount *string, page *Paginate) ([]string, error)
	GetBalance(ctx context.Context) (string, error)
	GetUsedAddresses(ctx context.Context, page *Paginate) ([]string, error)
	GetUnusedAddresses(ctx context.Context) ([]string, error)
	GetChangeAddress(ctx context.Context) (string, error)
	GetRewardAddresses(ctx context.Context) ([]string, error)
	SignTx(ctx context.Context, txHex string, partialSign bool) (string, error)
	SignData(ctx context.Context, addrHex, payloadHex string) (DataSignature, error)
	SubmitTx(ctx context.Context, txHex string) (string, error)
}

// Wallet-side error codes, as the browser protocol numbers them.
const (
	APIErrInvalidRequest = -1
	APIErrInternalError  = -2
	APIErrRefused        = -3
	APIErrAccountChange  = -4

	TxSignErrProofGeneration = 1
	TxSignErrUserDeclined    = 2

	TxSendErrRefused = 1
	TxSendErrFailure = 2

	DataSignErrProofGeneration = 1
	DataSignErrAddressNotPK    = 2
	DataSignErrUserDeclined    = 3
)

// APIError is a wallet-side rejection of any call.
type APIError struct {
	Code int
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wallet api error %d: %s", e.Code, e.Info)
}

// TxSignError is a wallet-side rejection of a signTx call.
type TxSignError struct {
	Code int
	Info string
}

func (e *TxSignError) Error() string {
	return fmt.Sprintf("wallet sign error %d: %s", e.Code, e.Info)
}

// TxSendError is a wallet-side rejection of a submitTx call.
type TxSendError struct {
	Code int
	Info string
}

func (e *TxSendError) Error() string {
	return fmt.Sprintf("wallet submit error %d: %s", e.Code, e.Info)
}

// DataSignError is a wallet-side rejection of a signData call.
type DataSignError struct {
	Code int
	Info string
}

func (e *DataSignError) Error() string {
	return fmt.Sprintf("wallet data sign error %d: %s", e.Code, e.Info)
}

// PaginateError reports an out-of-range page, carrying the maximum valid
// page size the wallet accepts.
type PaginateError struct {
	MaxSize int
}

func (e *PaginateError) Error() string {
	return fmt.Sprintf("pagination out of range, max size %d", e.MaxSize)
}
