package chainreg

import (
	"fmt"

	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg"
)

// NetParams couples the p2p parameters of a network with the checkpoints the
// node hardens that network with.
type NetParams struct {
	*chaincfg.Params

	// Hardened is false for networks that apply no checkpoint hardening
	// at all. Their table is empty, not even the genesis block is pinned.
	Hardened bool

	// HardenedCheckpoints are the checkpoints pinned on top of the genesis
	// block.
	HardenedCheckpoints []checkpoints.Checkpoint
}

// MainNetParams contains parameters specific to the main network.
//
// NOTE: the main network checkpoints above genesis belong to the chain they
// were taken from, whose genesis header is not available here. The genesis
// block and its pin come from chaincfg.MainNetParams, so no real header
// stream satisfies both: a bitcoin main chain is vetoed at height 14, and a
// chain matching the checkpoints is orphaned at height 1. Replace the
// parameters with those of the checkpointed chain before running main net
// hardening against real headers.
var MainNetParams = NetParams{
	Params:              &chaincfg.MainNetParams,
	Hardened:            true,
	HardenedCheckpoints: mainNetCheckpoints,
}

// TestNetParams contains parameters specific to the test network. The test
// network is not hardened.
var TestNetParams = NetParams{
	Params: &chaincfg.TestNet3Params,
}

// RegTestNetParams contains parameters specific to a local regtest network.
var RegTestNetParams = NetParams{
	Params: &chaincfg.RegressionNetParams,
}

// SimNetParams contains parameters specific to the simulation test network.
var SimNetParams = NetParams{
	Params: &chaincfg.SimNetParams,
}

// CheckpointTable builds the checkpoint table of the network. The genesis
// entry is taken from the network parameters rather than from the checkpoint
// data.
func (p NetParams) CheckpointTable() (*checkpoints.Table, error) {
	if !p.Hardened {
		return checkpoints.EmptyTable(), nil
	}

	table, err := checkpoints.NewTable(
		*p.GenesisHash, p.HardenedCheckpoints,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid checkpoints for %v: %w", p.Name,
			err)
	}

	return table, nil
}

// ParamsForNetwork returns the parameters of the network with the given name.
func ParamsForNetwork(network string) (NetParams, error) {
	switch network {
	case MainNetParams.Name:
		return MainNetParams, nil

	case TestNetParams.Name, "testnet":
		return TestNetParams, nil

	case RegTestNetParams.Name:
		return RegTestNetParams, nil

	case SimNetParams.Name:
		return SimNetParams, nil

	default:
		return NetParams{}, fmt.Errorf("unknown network: %v", network)
	}
}
