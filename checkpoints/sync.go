package checkpoints

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// SyncCheckpointSpan is the number of blocks the sync checkpoint trails the
// best chain tip by.
const SyncCheckpointSpan = 100

// ChainNode is a read only view of a block in the block tree. N is the
// concrete node type, so that walking parents never leaves the caller's own
// representation.
type ChainNode[N any] interface {
	// Height returns the height of the block.
	Height() int32

	// Parent returns the parent block, or false for the genesis block.
	Parent() (N, bool)
}

// HashIndex looks up blocks known to the node by their hash.
type HashIndex[N any] interface {
	// LookupNode returns the block with the given hash if it is known.
	LookupNode(hash *chainhash.Hash) (N, bool)
}

// LastCheckpoint returns the most recent checkpoint whose block is present in
// the index. The table is searched from the newest checkpoint down, so the
// result is the highest known anchor. None is returned when the index holds
// none of the checkpointed blocks.
func LastCheckpoint[N any](t *Table, index HashIndex[N]) fn.Option[N] {
	for i := len(t.checkpoints) - 1; i >= 0; i-- {
		node, ok := index.LookupNode(&t.checkpoints[i].Hash)
		if !ok {
			continue
		}

		log.Tracef("Last known checkpoint is %v", t.checkpoints[i])

		return fn.Some(node)
	}

	return fn.None[N]()
}

// AutoSelectSyncCheckpoint returns the sync checkpoint for the chain ending at
// tip: its ancestor SyncCheckpointSpan blocks back, or the genesis block when
// the chain is shorter than that.
//
// The parent links reachable from tip must not change during the call.
func AutoSelectSyncCheckpoint[N ChainNode[N]](tip N) N {
	return AutoSelectSyncCheckpointSpan(tip, SyncCheckpointSpan)
}

// AutoSelectSyncCheckpointSpan is AutoSelectSyncCheckpoint with a custom span.
// The walk stops at the first node whose height plus span no longer exceeds
// the tip height, or at the first node without a parent.
func AutoSelectSyncCheckpointSpan[N ChainNode[N]](tip N, span int32) N {
	tipHeight := tip.Height()

	node := tip
	for node.Height()+span > tipHeight {
		parent, ok := node.Parent()
		if !ok {
			break
		}
		node = parent
	}

	return node
}

// CheckSync returns false if a block at the passed height would sit at or
// below the sync checkpoint of the chain ending at tip. Replacing such a block
// is a reorganization deeper than the node tolerates.
func CheckSync[N ChainNode[N]](height int32, tip N) bool {
	return CheckSyncSpan(height, tip, SyncCheckpointSpan)
}

// CheckSyncSpan is CheckSync with a custom span.
func CheckSyncSpan[N ChainNode[N]](height int32, tip N, span int32) bool {
	syncCheckpoint := AutoSelectSyncCheckpointSpan(tip, span)

	return height > syncCheckpoint.Height()
}
