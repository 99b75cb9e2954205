package main

import (
	"context"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:   "balance",
	Usage:  "print the total value held by the wallet",
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	svc, cleanup, err := getEnabledConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	total, err := svc.Balance(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"lovelace": total.Coin,
		"ada":      cardano.FormatLovelace(total.Coin),
		"assets":   total.Assets,
	})
	return nil
}
