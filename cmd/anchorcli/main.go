package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/anchorchain/anchord/anchorcfg"
	"github.com/anchorchain/anchord/build"
	"github.com/anchorchain/anchord/chainreg"
	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[anchorcli] %v\n", err)
	os.Exit(1)
}

// getChainControl builds the checkpoint table, index and guard described by
// the global options.
func getChainControl(ctx *cli.Context) (*chainreg.ChainControl, error) {
	params, err := chainreg.ParamsForNetwork(ctx.GlobalString("network"))
	if err != nil {
		return nil, err
	}

	cps, err := anchorcfg.ParseCheckpoints(
		ctx.GlobalStringSlice("addcheckpoint"),
	)
	if err != nil {
		return nil, err
	}

	syncSpan := ctx.GlobalInt("syncspan")
	if syncSpan < 0 || syncSpan > math.MaxInt32 {
		return nil, fmt.Errorf("syncspan %d out of range", syncSpan)
	}

	return chainreg.NewChainControl(&chainreg.Config{
		ActiveNetParams:    params,
		AddCheckpoints:     cps,
		DisableCheckpoints: ctx.GlobalBool("nocheckpoints"),
		SyncSpan:           int32(syncSpan),
	})
}

// writeJSON writes the indented JSON encoding of resp to w.
func writeJSON(w io.Writer, resp interface{}) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "\t"); err != nil {
		return err
	}
	out.WriteString("\n")

	_, err = out.WriteTo(w)

	return err
}

func printJSON(resp interface{}) {
	if err := writeJSON(os.Stdout, resp); err != nil {
		fatal(err)
	}
}

// newApp returns the anchorcli application with its global flags and
// commands.
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "anchorcli"
	app.Version = build.Version() + " commit=" + build.Commit
	app.Usage = "inspect the checkpoints of the anchor daemon (anchord)"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "network, n",
			Usage: "the network to use (mainnet, testnet, regtest, simnet)",
			Value: "mainnet",
		},
		cli.StringSliceFlag{
			Name: "addcheckpoint",
			Usage: "add a custom checkpoint in the format " +
				"<height>:<hash>, can be specified multiple times",
		},
		cli.BoolFlag{
			Name:  "nocheckpoints",
			Usage: "disable the built-in checkpoints",
		},
		cli.IntFlag{
			Name: "syncspan",
			Usage: "number of blocks the sync checkpoint trails the " +
				"best chain tip by, 0 selects the default",
		},
	}
	app.Commands = []cli.Command{
		checkHardenedCommand,
		estimateCommand,
		listCheckpointsCommand,
		lastCheckpointCommand,
		syncCheckpointCommand,
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}
