package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cardano-connect/go-cip30/config"
	"github.com/cardano-connect/go-cip30/internal/core/application"
	walletws "github.com/cardano-connect/go-cip30/internal/infrastructure/wallet-ws"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "cip30 CLI"
	app.Usage = "Command line interface for poking at a wallet through a browser-extension bridge"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "websocket endpoint of the wallet bridge",
			Value: config.GetString(config.BridgeURLKey),
		},
		&cli.StringFlag{
			Name:  "origin",
			Usage: "origin to connect as",
			Value: "https://cli.local",
		},
	}
	app.Commands = append(
		app.Commands,
		&describe,
		&isenabled,
		&networkid,
		&balance,
		&utxos,
		&addresses,
		&extensions,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// getConnector dials the bridge and builds the connector for its wallet. The
// returned cleanup closes the connection.
func getConnector(ctx *cli.Context) (application.ConnectorService, func(), error) {
	url := ctx.String("url")
	if url == "" {
		return nil, nil, fmt.Errorf("missing bridge url: pass --url or set CIP30_BRIDGE_URL")
	}

	client, err := walletws.Dial(context.Background(), url)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { client.Close() }

	discovered, err := client.Describe(context.Background())
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc, err := application.NewConnectorService(
		discovered, ctx.String("origin"), config.GetDuration(config.RequestTimeoutKey),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// getEnabledConnector additionally runs the enable handshake, waiting for the
// user to answer the prompt.
func getEnabledConnector(ctx *cli.Context) (application.ConnectorService, func(), error) {
	svc, cleanup, err := getConnector(ctx)
	if err != nil {
		return nil, nil, err
	}

	enableCtx, cancel := context.WithTimeout(
		context.Background(), config.GetDuration(config.EnableTimeoutKey),
	)
	defer cancel()

	if _, err := svc.Enable(enableCtx); err != nil {
		cleanup()
		return nil, nil, err
	}

	if expected, pinned := config.GetExpectedNetwork(); pinned {
		net, err := svc.NetworkID(enableCtx)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if net != expected {
			cleanup()
			return nil, nil, fmt.Errorf(
				"wallet is on %s, %s requires %s", net, config.ExpectedNetworkKey, expected,
			)
		}
	}
	return svc, cleanup, nil
}

func printRespJSON(resp interface{}) {
	out, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[cip30] %v\n", err)
	os.Exit(1)
}
