package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/chainguard"
	"github.com/anchorchain/anchord/chainreg"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/urfave/cli"
)

var headersFileFlag = cli.StringFlag{
	Name:  "headersfile",
	Usage: "file of serialized block headers to replay first",
}

// blockRef identifies a block of the index.
type blockRef struct {
	Height int32  `json:"height"`
	Hash   string `json:"hash"`
}

func newBlockRef(n blockindex.Node) *blockRef {
	return &blockRef{
		Height: n.Height(),
		Hash:   n.Hash().String(),
	}
}

var checkHardenedCommand = cli.Command{
	Name:      "checkhardened",
	Category:  "Checkpoints",
	Usage:     "Check a block against the hardened checkpoints.",
	ArgsUsage: "height hash",
	Description: `
	Reports whether a block with the given hash may exist at the given
	height. Heights without a checkpoint accept any hash.
	`,
	Flags: []cli.Flag{
		cli.Int64Flag{
			Name:  "height",
			Usage: "the height of the block",
		},
		cli.StringFlag{
			Name:  "hash",
			Usage: "the hash of the block",
		},
	},
	Action: checkHardened,
}

type checkHardenedResponse struct {
	Height     int32  `json:"height"`
	Hash       string `json:"hash"`
	Hardened   bool   `json:"hardened"`
	Checkpoint string `json:"checkpoint,omitempty"`
}

func checkHardened(ctx *cli.Context) error {
	var (
		args      = ctx.Args()
		heightStr string
		hashStr   string
	)

	switch {
	case ctx.IsSet("height"):
		heightStr = strconv.FormatInt(ctx.Int64("height"), 10)
	case args.Present():
		heightStr = args.First()
		args = args.Tail()
	default:
		return fmt.Errorf("height argument missing")
	}

	switch {
	case ctx.IsSet("hash"):
		hashStr = ctx.String("hash")
	case args.Present():
		hashStr = args.First()
	default:
		return fmt.Errorf("hash argument missing")
	}

	height, err := parseHeight(heightStr)
	if err != nil {
		return err
	}
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return fmt.Errorf("unable to decode hash: %w", err)
	}

	cc, err := getChainControl(ctx)
	if err != nil {
		return err
	}

	printJSON(newCheckHardenedResponse(cc.Checkpoints, height, hash))

	return nil
}

func newCheckHardenedResponse(t *checkpoints.Table, height int32,
	hash *chainhash.Hash) *checkHardenedResponse {

	resp := &checkHardenedResponse{
		Height:   height,
		Hash:     hash.String(),
		Hardened: t.CheckHardened(height, hash),
	}
	t.Lookup(height).WhenSome(func(h chainhash.Hash) {
		resp.Checkpoint = h.String()
	})

	return resp
}

var estimateCommand = cli.Command{
	Name:     "estimate",
	Category: "Checkpoints",
	Usage:    "Show the checkpoint estimate of the chain height.",
	Action:   estimate,
}

type estimateResponse struct {
	Network             string `json:"network"`
	TotalBlocksEstimate int32  `json:"total_blocks_estimate"`
}

func estimate(ctx *cli.Context) error {
	cc, err := getChainControl(ctx)
	if err != nil {
		return err
	}

	printJSON(&estimateResponse{
		Network:             cc.Params.Name,
		TotalBlocksEstimate: cc.Checkpoints.TotalBlocksEstimate(),
	})

	return nil
}

var listCheckpointsCommand = cli.Command{
	Name:     "listcheckpoints",
	Category: "Checkpoints",
	Usage:    "List the hardened checkpoints of the network.",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "json",
			Usage: "print the checkpoints as JSON",
		},
	},
	Action: listCheckpoints,
}

func listCheckpoints(ctx *cli.Context) error {
	cc, err := getChainControl(ctx)
	if err != nil {
		return err
	}

	cps := cc.Checkpoints.Checkpoints()
	if ctx.Bool("json") {
		refs := make([]blockRef, 0, len(cps))
		for _, cp := range cps {
			refs = append(refs, blockRef{
				Height: cp.Height,
				Hash:   cp.Hash.String(),
			})
		}
		printJSON(refs)

		return nil
	}

	renderCheckpoints(os.Stdout, cps)

	return nil
}

// renderCheckpoints writes the checkpoints as a table.
func renderCheckpoints(w io.Writer, cps []checkpoints.Checkpoint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Height", "Hash"})
	for _, cp := range cps {
		t.AppendRow(table.Row{cp.Height, cp.Hash.String()})
	}
	t.AppendFooter(table.Row{"Total", len(cps)})
	t.Render()
}

var lastCheckpointCommand = cli.Command{
	Name:     "lastcheckpoint",
	Category: "Chain",
	Usage: "Show the most recent checkpoint that is part of the " +
		"block index.",
	Flags:  []cli.Flag{headersFileFlag},
	Action: lastCheckpoint,
}

type lastCheckpointResponse struct {
	Tip        *blockRef `json:"tip"`
	Checkpoint *blockRef `json:"checkpoint"`
}

func lastCheckpoint(ctx *cli.Context) error {
	cc, err := replayChain(ctx)
	if err != nil {
		return err
	}

	printJSON(newLastCheckpointResponse(cc.Guard))

	return nil
}

func newLastCheckpointResponse(g *chainguard.Guard) *lastCheckpointResponse {
	resp := &lastCheckpointResponse{
		Tip: newBlockRef(g.Tip()),
	}
	g.LastCheckpoint().WhenSome(func(n blockindex.Node) {
		resp.Checkpoint = newBlockRef(n)
	})

	return resp
}

var syncCheckpointCommand = cli.Command{
	Name:     "synccheckpoint",
	Category: "Chain",
	Usage:    "Show the sync checkpoint of the best chain.",
	Description: `
	Shows the block the sync checkpoint trails the best chain tip by. If
	--checkheight is set, also reports whether a block at that height may
	still replace the best chain.
	`,
	Flags: []cli.Flag{
		headersFileFlag,
		cli.StringFlag{
			Name:  "checkheight",
			Usage: "a block height to run the sync check for",
		},
	},
	Action: syncCheckpoint,
}

type syncCheckpointResponse struct {
	Tip            *blockRef `json:"tip"`
	SyncCheckpoint *blockRef `json:"sync_checkpoint"`
	CheckHeight    *int32    `json:"check_height,omitempty"`
	CheckSync      *bool     `json:"check_sync,omitempty"`
}

func syncCheckpoint(ctx *cli.Context) error {
	checkHeight := fn.None[int32]()
	if ctx.IsSet("checkheight") {
		height, err := parseHeight(ctx.String("checkheight"))
		if err != nil {
			return err
		}
		checkHeight = fn.Some(height)
	}

	cc, err := replayChain(ctx)
	if err != nil {
		return err
	}

	resp := newSyncCheckpointResponse(cc.Guard)
	checkHeight.WhenSome(func(height int32) {
		ok := cc.Guard.CheckSync(height)
		resp.CheckHeight = &height
		resp.CheckSync = &ok
	})

	printJSON(resp)

	return nil
}

// parseHeight decodes a block height, refusing values that do not fit an
// int32.
func parseHeight(heightStr string) (int32, error) {
	height, err := strconv.ParseInt(heightStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to decode height: %w", err)
	}

	return int32(height), nil
}

func newSyncCheckpointResponse(g *chainguard.Guard) *syncCheckpointResponse {
	return &syncCheckpointResponse{
		Tip:            newBlockRef(g.Tip()),
		SyncCheckpoint: newBlockRef(g.SyncCheckpoint()),
	}
}

// replayChain builds the chain control and replays the headers file, if one
// is given.
func replayChain(ctx *cli.Context) (*chainreg.ChainControl, error) {
	cc, err := getChainControl(ctx)
	if err != nil {
		return nil, err
	}

	path := ctx.String("headersfile")
	if path == "" {
		return cc, nil
	}

	stats, err := cc.ReplayHeadersFile(path, nil)
	if err != nil {
		return nil, err
	}
	if stats.Rejected > 0 {
		fmt.Fprintf(os.Stderr, "[anchorcli] %d of %d header(s) "+
			"rejected\n", stats.Rejected, stats.Processed)
	}

	return cc, nil
}
