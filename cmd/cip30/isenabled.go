package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var isenabled = cli.Command{
	Name:   "isenabled",
	Usage:  "probe for an existing authorization without prompting",
	Action: isEnabledAction,
}

func isEnabledAction(ctx *cli.Context) error {
	svc, cleanup, err := getConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	enabled, err := svc.IsEnabled(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(map[string]bool{"enabled": enabled})
	return nil
}
