package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var extensions = cli.Command{
	Name:   "extensions",
	Usage:  "list the extensions live on the negotiated session",
	Action: extensionsAction,
}

func extensionsAction(ctx *cli.Context) error {
	svc, cleanup, err := getEnabledConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := svc.EnabledExtensions(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"extensions": names})
	return nil
}
