package walletws

import (
	"context"

	"github.com/cardano-connect/go-cip30/internal/core/ports"
)

// Describe asks the bridge for the metadata of the wallet it fronts and
// returns a registry entry with this client as the handle.
func (c *Client) Describe(ctx context.Context) (ports.DiscoveredWallet, error) {
	var meta struct {
		Name       string   `json:"name"`
		APIVersion string   `json:"apiVersion"`
		Icon       string   `json:"icon"`
		Extensions []string `json:"extensions"`
	}
	if err := c.callInto(ctx, "describe", nil, &meta); err != nil {
		return ports.DiscoveredWallet{}, err
	}
	return ports.DiscoveredWallet{
		Name:       meta.Name,
		APIVersion: meta.APIVersion,
		Icon:       meta.Icon,
		Extensions: meta.Extensions,
		Handle:     c,
	}, nil
}

func (c *Client) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	if err := c.callInto(ctx, "isEnabled", nil, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (c *Client) Enable(ctx context.Context, extensions []string) (ports.WalletAPI, error) {
	params := struct {
		Extensions []string `json:"extensions,omitempty"`
	}{Extensions: extensions}
	if err := c.callInto(ctx, "enable", params, nil); err != nil {
		return nil, err
	}
	return &remoteAPI{client: c}, nil
}

// remoteAPI forwards the enabled call surface over the client's connection.
type remoteAPI struct {
	client *Client
}

func (a *remoteAPI) GetExtensions(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.callInto(ctx, "getExtensions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *remoteAPI) GetNetworkID(ctx context.Context) (int, error) {
	var out int
	if err := a.client.callInto(ctx, "getNetworkId", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

type paginateParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func wireParams(page *ports.Paginate) *paginateParams {
	if page == nil {
		return nil
	}
	return &paginateParams{Page: page.Page, Limit: page.Limit}
}

func (a *remoteAPI) GetUtxos(
	ctx context.Context, amount *string, page *ports.Paginate,
) ([]string, error) {
	params := struct {
		Amount   *string         `json:"amount,omitempty"`
		Paginate *paginateParams `json:"paginate,omitempty"`
	}{Amount: amount, Paginate: wireParams(page)}

	var out []string
	if err := a.client.callInto(ctx, "getUtxos", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *remoteAPI) GetBalance(ctx context.Context) (string, error) {
	var out string
	if err := a.client.callInto(ctx, "getBalance", nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (a *remoteAPI) GetUsedAddresses(
	ctx context.Context, page *ports.Paginate,
) ([]string, error) {
	params := struct {
		Paginate *paginateParams `json:"paginate,omitempty"`
	}{Paginate: wireParams(page)}

	var out []string
	if err := a.client.callInto(ctx, "getUsedAddresses", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *remoteAPI) GetUnusedAddresses(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.callInto(ctx, "getUnusedAddresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *remoteAPI) GetChangeAddress(ctx context.Context) (string, error) {
	var out string
	if err := a.client.callInto(ctx, "getChangeAddress", nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (a *remoteAPI) GetRewardAddresses(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.callInto(ctx, "getRewardAddresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *remoteAPI) SignTx(
	ctx context.Context, txHex string, partialSign bool,
) (string, error) {
	params := struct {
		Tx          string `json:"tx"`
		PartialSign bool   `json:"partialSign"`
	}{Tx: txHex, PartialSign: partialSign}

	var out string
	if err := a.client.callInto(ctx, "signTx", params, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (a *remoteAPI) SignData(
	ctx context.Context, addrHex, payloadHex string,
) (ports.DataSignature, error) {
	params := struct {
		Addr    string `json:"addr"`
		Payload string `json:"payload"`
	}{Addr: addrHex, Payload: payloadHex}

	var out struct {
		Signature string `json:"signature"`
		Key       string `json:"key"`
	}
	if err := a.client.callInto(ctx, "signData", params, &out); err != nil {
		return ports.DataSignature{}, err
	}
	return ports.DataSignature{Signature: out.Signature, Key: out.Key}, nil
}

func (a *remoteAPI) SubmitTx(ctx context.Context, txHex string) (string, error) {
	params := struct {
		Tx string `json:"tx"`
	}{Tx: txHex}

	var out string
	if err := a.client.callInto(ctx, "submitTx", params, &out); err != nil {
		return "", err
	}
	return out, nil
}
