package walletfake

import (
	"context"
	"sync"
	"time"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
)

// Options scripts the behavior of a fake wallet. Zero values fall back to a
// small but consistent testnet wallet.
type Options struct {
	Name       string
	APIVersion string
	Icon       string
	// Extensions advertised in the discovery registry.
	Extensions []string
	// Granted at enable time; defaults to Extensions.
	Granted []string

	NetworkID int
	// Utxos in hex wire form. The balance, when not scripted explicitly, is
	// their sum so the two listings stay mutually consistent.
	Utxos   []string
	Balance string

	UsedAddresses   []string
	UnusedAddresses []string
	RewardAddresses []string
	ChangeAddress   string

	// AlreadyEnabled makes IsEnabled report true before any Enable call.
	AlreadyEnabled bool
	// EnableErr rejects the handshake, e.g. &ports.APIError{Code: -3, ...}.
	EnableErr error
	// Latency delays every call, simulating a user staring at a prompt.
	Latency time.Duration

	SignTxFn   func(txHex string, partialSign bool) (string, error)
	SubmitTxFn func(txHex string) (string, error)
	SignDataFn func(addrHex, payloadHex string) (ports.DataSignature, error)
}

// Wallet is a scripted, in-process implementation of the wallet call
// surface.
type Wallet struct {
	opts Options

	mtx     sync.Mutex
	enabled bool
	// calls counts every operation reaching the wallet, by name
	calls map[string]int
	// failures holds one-shot scripted errors, by operation name
	failures map[string]error
}

// New builds a fake wallet from the given options.
func New(opts Options) *Wallet {
	if opts.Name == "" {
		opts.Name = "fake"
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "0.1.0"
	}
	if len(opts.Granted) == 0 {
		opts.Granted = opts.Extensions
	}
	return &Wallet{opts: opts, calls: map[string]int{}, failures: map[string]error{}}
}

// Descriptor returns the registry entry exposing this wallet.
func (w *Wallet) Descriptor() ports.DiscoveredWallet {
	return ports.DiscoveredWallet{
		Name:       w.opts.Name,
		APIVersion: w.opts.APIVersion,
		Icon:       w.opts.Icon,
		Extensions: append([]string(nil), w.opts.Extensions...),
		Handle:     w,
	}
}

// Calls returns how many times the named operation reached the wallet.
func (w *Wallet) Calls(op string) int {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.calls[op]
}

// FailNext scripts a one-shot failure for the next call of the named
// operation.
func (w *Wallet) FailNext(op string, err error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.failures[op] = err
}

func (w *Wallet) record(ctx context.Context, op string) error {
	w.mtx.Lock()
	w.calls[op]++
	scripted, ok := w.failures[op]
	if ok {
		delete(w.failures, op)
	}
	w.mtx.Unlock()
	if ok {
		return scripted
	}

	if w.opts.Latency <= 0 {
		return nil
	}
	select {
	case <-time.After(w.opts.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Wallet) IsEnabled(ctx context.Context) (bool, error) {
	if err := w.record(ctx, "isEnabled"); err != nil {
		return false, err
	}
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.enabled || w.opts.AlreadyEnabled, nil
}

func (w *Wallet) Enable(ctx context.Context, extensions []string) (ports.WalletAPI, error) {
	if err := w.record(ctx, "enable"); err != nil {
		return nil, err
	}
	if w.opts.EnableErr != nil {
		return nil, w.opts.EnableErr
	}

	w.mtx.Lock()
	w.enabled = true
	w.mtx.Unlock()
	return &api{wallet: w}, nil
}

type api struct {
	wallet *Wallet
}

func (a *api) GetExtensions(ctx context.Context) ([]string, error) {
	if err := a.wallet.record(ctx, "getExtensions"); err != nil {
		return nil, err
	}
	return append([]string(nil), a.wallet.opts.Granted...), nil
}

func (a *api) GetNetworkID(ctx context.Context) (int, error) {
	if err := a.wallet.record(ctx, "getNetworkId"); err != nil {
		return 0, err
	}
	return a.wallet.opts.NetworkID, nil
}

func (a *api) GetUtxos(
	ctx context.Context, amount *string, page *ports.Paginate,
) ([]string, error) {
	if err := a.wallet.record(ctx, "getUtxos"); err != nil {
		return nil, err
	}

	utxos := append([]string(nil), a.wallet.opts.Utxos...)
	if amount != nil {
		target, err := cardano.DecodeValueHex(*amount)
		if err != nil {
			return nil, &ports.APIError{Code: ports.APIErrInvalidRequest, Info: err.Error()}
		}
		selected := make([]string, 0, len(utxos))
		running := cardano.Value{}
		for _, raw := range utxos {
			u, err := cardano.DecodeUtxoHex(raw)
			if err != nil {
				return nil, &ports.APIError{Code: ports.APIErrInternalError, Info: err.Error()}
			}
			selected = append(selected, raw)
			running = running.Add(u.Output.Value)
			if running.Covers(target) {
				break
			}
		}
		if !running.Covers(target) {
			// target unreachable: nil by contract, not an empty list
			return nil, nil
		}
		utxos = selected
	}

	return paginate(utxos, page)
}

func (a *api) GetBalance(ctx context.Context) (string, error) {
	if err := a.wallet.record(ctx, "getBalance"); err != nil {
		return "", err
	}
	if a.wallet.opts.Balance != "" {
		return a.wallet.opts.Balance, nil
	}

	total := cardano.Value{}
	for _, raw := range a.wallet.opts.Utxos {
		u, err := cardano.DecodeUtxoHex(raw)
		if err != nil {
			return "", &ports.APIError{Code: ports.APIErrInternalError, Info: err.Error()}
		}
		total = total.Add(u.Output.Value)
	}
	return total.EncodeHex()
}

func (a *api) GetUsedAddresses(ctx context.Context, page *ports.Paginate) ([]string, error) {
	if err := a.wallet.record(ctx, "getUsedAddresses"); err != nil {
		return nil, err
	}
	return paginate(a.wallet.opts.UsedAddresses, page)
}

func (a *api) GetUnusedAddresses(ctx context.Context) ([]string, error) {
	if err := a.wallet.record(ctx, "getUnusedAddresses"); err != nil {
		return nil, err
	}
	return append([]string(nil), a.wallet.opts.UnusedAddresses...), nil
}

func (a *api) GetChangeAddress(ctx context.Context) (string, error) {
	if err := a.wallet.record(ctx, "getChangeAddress"); err != nil {
		return "", err
	}
	return a.wallet.opts.ChangeAddress, nil
}

func (a *api) GetRewardAddresses(ctx context.Context) ([]string, error) {
	if err := a.wallet.record(ctx, "getRewardAddresses"); err != nil {
		return nil, err
	}
	return append([]string(nil), a.wallet.opts.RewardAddresses...), nil
}

func (a *api) SignTx(ctx context.Context, txHex string, partialSign bool) (string, error) {
	if err := a.wallet.record(ctx, "signTx"); err != nil {
		return "", err
	}
	if a.wallet.opts.SignTxFn == nil {
		return "", &ports.TxSignError{
			Code: ports.TxSignErrProofGeneration, Info: "signing not scripted",
		}
	}
	return a.wallet.opts.SignTxFn(txHex, partialSign)
}

func (a *api) SignData(ctx context.Context, addrHex, payloadHex string) (ports.DataSignature, error) {
	if err := a.wallet.record(ctx, "signData"); err != nil {
		return ports.DataSignature{}, err
	}
	if a.wallet.opts.SignDataFn == nil {
		return ports.DataSignature{}, &ports.DataSignError{
			Code: ports.DataSignErrProofGeneration, Info: "data signing not scripted",
		}
	}
	return a.wallet.opts.SignDataFn(addrHex, payloadHex)
}

func (a *api) SubmitTx(ctx context.Context, txHex string) (string, error) {
	if err := a.wallet.record(ctx, "submitTx"); err != nil {
		return "", err
	}
	if a.wallet.opts.SubmitTxFn == nil {
		return "", &ports.TxSendError{
			Code: ports.TxSendErrRefused, Info: "submission not scripted",
		}
	}
	return a.wallet.opts.SubmitTxFn(txHex)
}

func paginate(items []string, page *ports.Paginate) ([]string, error) {
	if page == nil {
		return append([]string(nil), items...), nil
	}
	if page.Limit <= 0 || page.Page < 0 {
		return nil, &ports.PaginateError{MaxSize: len(items)}
	}
	start := page.Page * page.Limit
	if start >= len(items) && start > 0 {
		return nil, &ports.PaginateError{MaxSize: (len(items) + page.Limit - 1) / page.Limit}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]string(nil), items[start:end]...), nil
}
