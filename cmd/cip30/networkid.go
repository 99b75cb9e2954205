package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var networkid = cli.Command{
	Name:   "networkid",
	Usage:  "print the network of the connected account",
	Action: networkIDAction,
}

func networkIDAction(ctx *cli.Context) error {
	svc, cleanup, err := getEnabledConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	network, err := svc.NetworkID(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"networkId": int(network),
		"name":      network.String(),
	})
	return nil
}
