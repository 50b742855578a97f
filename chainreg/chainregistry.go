package chainreg

import (
	"fmt"

	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/chainguard"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Config houses necessary fields that a ChainControl instance needs to
// function.
type Config struct {
	// ActiveNetParams details the current chain we are on.
	ActiveNetParams NetParams

	// AddCheckpoints are merged into the checkpoints of the active
	// network.
	AddCheckpoints []checkpoints.Checkpoint

	// DisableCheckpoints turns checkpoint hardening off. AddCheckpoints
	// are ignored when it is set.
	DisableCheckpoints bool

	// SyncSpan overrides the distance between the best chain tip and the
	// sync checkpoint. Zero keeps the default.
	SyncSpan int32

	// OnReject is called for every header the guard refuses.
	OnReject func(hash chainhash.Hash, code chainguard.ErrorCode)
}

// ChainControl couples the checkpoint table of the active network with the
// block index and the guard that feeds it.
type ChainControl struct {
	// Params are the parameters of the active network.
	Params NetParams

	// Checkpoints is the checkpoint table in effect.
	Checkpoints *checkpoints.Table

	// Index is the block tree, seeded with the network's genesis block.
	Index *blockindex.Index

	// Guard validates headers before they enter the index.
	Guard *chainguard.Guard
}

// NewChainControl builds the checkpoint table for the active network and sets
// up an index and guard on top of it.
func NewChainControl(cfg *Config) (*ChainControl, error) {
	params := cfg.ActiveNetParams

	table, err := checkpointTable(cfg)
	if err != nil {
		return nil, err
	}

	log.Infof("Using %d checkpoint(s) on %v, highest at height %d",
		table.Len(), params.Name, table.TotalBlocksEstimate())

	index := blockindex.New(&params.GenesisBlock.Header)
	guard := chainguard.New(&chainguard.Config{
		Checkpoints: table,
		Index:       index,
		SyncSpan:    cfg.SyncSpan,
		OnReject:    cfg.OnReject,
	})

	return &ChainControl{
		Params:      params,
		Checkpoints: table,
		Index:       index,
		Guard:       guard,
	}, nil
}

// checkpointTable returns the checkpoint table selected by the config.
func checkpointTable(cfg *Config) (*checkpoints.Table, error) {
	if cfg.DisableCheckpoints {
		log.Warnf("Checkpoints are disabled, no hardening is applied")
		return checkpoints.EmptyTable(), nil
	}

	params := cfg.ActiveNetParams
	table, err := params.CheckpointTable()
	if err != nil {
		return nil, err
	}

	if len(cfg.AddCheckpoints) == 0 {
		return table, nil
	}

	// A network without checkpoints still pins its genesis block once
	// extra checkpoints are configured for it.
	if !params.Hardened {
		table, err = checkpoints.NewTable(*params.GenesisHash, nil)
		if err != nil {
			return nil, err
		}
	}

	table, err = table.Merge(cfg.AddCheckpoints)
	if err != nil {
		return nil, fmt.Errorf("unable to add checkpoints: %w", err)
	}

	return table, nil
}
