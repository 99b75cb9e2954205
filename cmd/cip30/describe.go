package main

import (
	"github.com/urfave/cli/v2"
)

var describe = cli.Command{
	Name:   "describe",
	Usage:  "print the metadata of the wallet behind the bridge",
	Action: describeAction,
}

func describeAction(ctx *cli.Context) error {
	svc, cleanup, err := getConnector(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	descriptor := svc.Descriptor()
	printRespJSON(map[string]interface{}{
		"name":       descriptor.Name(),
		"apiVersion": descriptor.APIVersion(),
		"icon":       descriptor.Icon(),
		"extensions": descriptor.Supported().Names(),
	})
	return nil
}
