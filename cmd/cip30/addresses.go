package main

import (
	"context"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/urfave/cli/v2"
)

var addresses = cli.Command{
	Name:   "addresses",
	Usage:  "print the used, unused, change and reward addresses of the wallet",
	Action: addressesAction,
}

func addressesAction(ctx *cli.Context) error {
	svc, cleanup, err := getEnabledConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	background := context.Background()

	used, err := svc.UsedAddresses(background, nil)
	if err != nil {
		return err
	}
	unused, err := svc.UnusedAddresses(background)
	if err != nil {
		return err
	}
	change, err := svc.ChangeAddress(background)
	if err != nil {
		return err
	}
	reward, err := svc.RewardAddresses(background)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"used":   encodeAddresses(used),
		"unused": encodeAddresses(unused),
		"change": change.String(),
		"reward": encodeAddresses(reward),
	})
	return nil
}

func encodeAddresses(addrs []cardano.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}
