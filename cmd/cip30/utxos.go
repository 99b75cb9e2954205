package main

import (
	"context"

	"github.com/cardano-connect/go-cip30/config"
	"github.com/cardano-connect/go-cip30/internal/core/ports"
	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/urfave/cli/v2"
)

var utxos = cli.Command{
	Name:  "utxos",
	Usage: "list the wallet utxos",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "amount",
			Usage: "restrict the listing to utxos reaching this ada amount, ie. 12.5",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "page to list, starting from 0",
			Value: 0,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "page size",
			Value: config.GetInt(config.DefaultPageSizeKey),
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "list everything, ignoring pagination",
		},
	},
	Action: utxosAction,
}

func utxosAction(ctx *cli.Context) error {
	svc, cleanup, err := getEnabledConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var amount *cardano.Value
	if raw := ctx.String("amount"); raw != "" {
		lovelace, err := cardano.ParseAda(raw)
		if err != nil {
			return err
		}
		target := cardano.NewValue(lovelace)
		amount = &target
	}

	var page *ports.Paginate
	if !ctx.Bool("all") {
		page = &ports.Paginate{Page: ctx.Int("page"), Limit: ctx.Int("limit")}
	}

	set, err := svc.Utxos(context.Background(), amount, page)
	if err != nil {
		return err
	}

	type utxoView struct {
		TxID    string             `json:"txId"`
		Index   uint64             `json:"index"`
		Address string             `json:"address"`
		Ada     string             `json:"ada"`
		Assets  cardano.MultiAsset `json:"assets,omitempty"`
	}

	views := make([]utxoView, 0, set.Len())
	for _, u := range set.Utxos() {
		views = append(views, utxoView{
			TxID:    u.Input.TxID.String(),
			Index:   u.Input.Index,
			Address: u.Output.Address.String(),
			Ada:     cardano.FormatLovelace(u.Output.Value.Coin),
			Assets:  u.Output.Value.Assets,
		})
	}
	printRespJSON(views)
	return nil
}
