package chainguard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/anchorchain/anchord/lnutils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Config houses the dependencies of a Guard.
type Config struct {
	// Checkpoints is the checkpoint table of the active network.
	Checkpoints *checkpoints.Table

	// Index is the block tree that accepted headers are added to.
	Index *blockindex.Index

	// SyncSpan is the number of blocks the sync checkpoint trails the best
	// chain tip by. Zero selects checkpoints.SyncCheckpointSpan.
	SyncSpan int32

	// OnReject, if set, is called for every rejected header.
	OnReject func(hash chainhash.Hash, code ErrorCode)
}

// Guard feeds block headers into the block index, refusing those that
// conflict with the checkpoints or reorganize the chain too deeply. Headers
// that pass are added to the index, and the best chain tip follows the chain
// with the most cumulative work.
type Guard struct {
	cfg *Config

	syncSpan int32

	// processLock serializes header processing so that the checks and the
	// insertion of a header are atomic.
	processLock sync.Mutex
}

// New creates a new Guard.
func New(cfg *Config) *Guard {
	syncSpan := cfg.SyncSpan
	if syncSpan == 0 {
		syncSpan = checkpoints.SyncCheckpointSpan
	}

	return &Guard{
		cfg:      cfg,
		syncSpan: syncSpan,
	}
}

// ProcessHeader validates the header against the checkpoint rules and adds it
// to the index. It returns whether the header became the new best chain tip.
// Rejected headers are reported as a RuleError.
func (g *Guard) ProcessHeader(header *wire.BlockHeader) (bool, error) {
	g.processLock.Lock()
	defer g.processLock.Unlock()

	hash := header.BlockHash()
	log.Tracef("Processing header %v: %v", hash,
		lnutils.SpewLogClosure(header))

	isMainChain, err := g.processHeader(header, &hash)

	var ruleErr RuleError
	if errors.As(err, &ruleErr) {
		log.DebugS(context.TODO(), "Rejected header",
			lnutils.LogHash("hash", &hash),
			"reason", ruleErr.ErrorCode,
			"err", ruleErr.Description)

		if g.cfg.OnReject != nil {
			g.cfg.OnReject(hash, ruleErr.ErrorCode)
		}
	}

	return isMainChain, err
}

// processHeader performs the checks and insertion of ProcessHeader.
//
// NOTE: the process lock must be held.
func (g *Guard) processHeader(header *wire.BlockHeader,
	hash *chainhash.Hash) (bool, error) {

	index := g.cfg.Index
	if index.HaveBlock(hash) {
		str := fmt.Sprintf("already have block %v", hash)
		return false, ruleError(ErrDuplicateBlock, str)
	}

	prevNode, ok := index.LookupNode(&header.PrevBlock)
	if !ok {
		str := fmt.Sprintf("previous block %v of %v is unknown",
			header.PrevBlock, hash)
		return false, ruleError(ErrOrphanBlock, str)
	}

	// The height of this block is one more than the referenced previous
	// block.
	blockHeight := prevNode.Height() + 1

	// Ensure chain matches up to predetermined checkpoints.
	if !g.cfg.Checkpoints.CheckHardened(blockHeight, hash) {
		str := fmt.Sprintf("block %v at height %d does not match "+
			"checkpoint hash", hash, blockHeight)
		return false, ruleError(ErrBadCheckpoint, str)
	}

	// Find the most recent checkpoint we know about and prevent blocks
	// which fork the chain before it.
	lastCheckpoint := checkpoints.LastCheckpoint[blockindex.Node](
		g.cfg.Checkpoints, index,
	)
	checkpointHeight := fn.MapOptionZ(
		lastCheckpoint, func(n blockindex.Node) int32 {
			return n.Height()
		},
	)
	if blockHeight < checkpointHeight {
		str := fmt.Sprintf("block at height %d forks the main chain "+
			"before the previous checkpoint at height %d",
			blockHeight, checkpointHeight)
		return false, ruleError(ErrForkTooOld, str)
	}

	// Refuse blocks whose chain forks from the best chain at or behind the
	// sync checkpoint. The first block such a chain would replace sits one
	// above the fork point, which for a block extending a side chain can be
	// far below the block itself.
	tip := index.Tip()
	fork := blockindex.FindFork(prevNode, tip)
	if !checkpoints.CheckSyncSpan(fork.Height()+1, tip, g.syncSpan) {
		syncNode := checkpoints.AutoSelectSyncCheckpointSpan(
			tip, g.syncSpan,
		)
		str := fmt.Sprintf("block at height %d forks the main chain "+
			"at height %d, at or before the sync checkpoint at "+
			"height %d", blockHeight, fork.Height(),
			syncNode.Height())
		return false, ruleError(ErrForkBehindSyncCheckpoint, str)
	}

	node, err := index.AddHeader(header)
	if err != nil {
		return false, err
	}

	// Only a chain with strictly more work replaces the current one.
	if node.WorkSum().Cmp(tip.WorkSum()) <= 0 {
		log.Debugf("Added side chain block %v, best chain tip "+
			"remains %v", node, tip)
		return false, nil
	}

	if !prevNode.IsEqual(tip) {
		log.Infof("REORGANIZE: chain forks at %v, old tip %v, "+
			"new tip %v", fork, tip, node)
	}

	if err := index.SetTip(node); err != nil {
		return false, err
	}

	return true, nil
}

// Tip returns the tip of the best chain.
func (g *Guard) Tip() blockindex.Node {
	return g.cfg.Index.Tip()
}

// SyncCheckpoint returns the current sync checkpoint of the best chain.
func (g *Guard) SyncCheckpoint() blockindex.Node {
	return checkpoints.AutoSelectSyncCheckpointSpan(
		g.cfg.Index.Tip(), g.syncSpan,
	)
}

// CheckSync returns whether a block at the passed height is still above the
// sync checkpoint of the best chain.
func (g *Guard) CheckSync(height int32) bool {
	return checkpoints.CheckSyncSpan(height, g.cfg.Index.Tip(), g.syncSpan)
}

// LastCheckpoint returns the most recent checkpoint present in the index.
func (g *Guard) LastCheckpoint() fn.Option[blockindex.Node] {
	return checkpoints.LastCheckpoint[blockindex.Node](
		g.cfg.Checkpoints, g.cfg.Index,
	)
}

// TotalBlocksEstimate returns the height of the most recent checkpoint of the
// active network.
func (g *Guard) TotalBlocksEstimate() int32 {
	return g.cfg.Checkpoints.TotalBlocksEstimate()
}
