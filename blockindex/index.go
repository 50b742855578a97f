package blockindex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrDuplicateBlock is returned when a block is added twice.
	ErrDuplicateBlock = errors.New("block already known")

	// ErrUnknownParent is returned when a block's previous block is not in
	// the index.
	ErrUnknownParent = errors.New("previous block unknown")

	// ErrForeignNode is returned when a handle that does not belong to the
	// index is passed in.
	ErrForeignNode = errors.New("node does not belong to this index")
)

// Index is an in-memory block tree rooted at the genesis block. Blocks are
// stored in an append-only arena and linked to their parent by arena position.
// The index also tracks the tip of the best chain.
//
// All methods are safe for concurrent access.
type Index struct {
	mtx sync.RWMutex

	arena  []blockNode
	byHash map[chainhash.Hash]nodeID
	tip    nodeID
}

// A compile-time check to ensure Index can be used as a checkpoint lookup.
var _ checkpoints.HashIndex[Node] = (*Index)(nil)

// New creates a block index that holds only the passed genesis block, which is
// also the initial best chain tip.
func New(genesis *wire.BlockHeader) *Index {
	hash := genesis.BlockHash()

	return &Index{
		arena: []blockNode{{
			header:  *genesis,
			hash:    hash,
			parent:  noParent,
			height:  0,
			workSum: blockchain.CalcWork(genesis.Bits),
		}},
		byHash: map[chainhash.Hash]nodeID{hash: 0},
		tip:    0,
	}
}

// nodeUnsafe returns a handle for the passed id.
//
// NOTE: the mutex must be held.
func (i *Index) nodeUnsafe(id nodeID) Node {
	return Node{arena: i.arena, id: id}
}

// LookupNode returns the block with the passed hash if it is in the index.
func (i *Index) LookupNode(hash *chainhash.Hash) (Node, bool) {
	i.mtx.RLock()
	defer i.mtx.RUnlock()

	id, ok := i.byHash[*hash]
	if !ok {
		return Node{}, false
	}

	return i.nodeUnsafe(id), true
}

// HaveBlock returns whether the block with the passed hash is in the index.
func (i *Index) HaveBlock(hash *chainhash.Hash) bool {
	i.mtx.RLock()
	defer i.mtx.RUnlock()

	_, ok := i.byHash[*hash]

	return ok
}

// Genesis returns the genesis block.
func (i *Index) Genesis() Node {
	i.mtx.RLock()
	defer i.mtx.RUnlock()

	return i.nodeUnsafe(0)
}

// Tip returns the tip of the best chain.
func (i *Index) Tip() Node {
	i.mtx.RLock()
	defer i.mtx.RUnlock()

	return i.nodeUnsafe(i.tip)
}

// Len returns the number of blocks in the index.
func (i *Index) Len() int {
	i.mtx.RLock()
	defer i.mtx.RUnlock()

	return len(i.arena)
}

// AddHeader links the passed header to its parent and adds it to the index.
// The best chain tip is not changed.
func (i *Index) AddHeader(header *wire.BlockHeader) (Node, error) {
	hash := header.BlockHash()

	i.mtx.Lock()
	defer i.mtx.Unlock()

	if _, ok := i.byHash[hash]; ok {
		return Node{}, fmt.Errorf("%w: %v", ErrDuplicateBlock, hash)
	}

	parentID, ok := i.byHash[header.PrevBlock]
	if !ok {
		return Node{}, fmt.Errorf("%w: %v references %v",
			ErrUnknownParent, hash, header.PrevBlock)
	}
	parent := &i.arena[parentID]

	workSum := blockchain.CalcWork(header.Bits)
	workSum.Add(workSum, parent.workSum)

	id := nodeID(len(i.arena))
	i.arena = append(i.arena, blockNode{
		header:  *header,
		hash:    hash,
		parent:  parentID,
		height:  parent.height + 1,
		workSum: workSum,
	})
	i.byHash[hash] = id

	log.Tracef("Added block %v at height %d", hash, parent.height+1)

	return i.nodeUnsafe(id), nil
}

// SetTip makes the passed block the tip of the best chain.
func (i *Index) SetTip(node Node) error {
	i.mtx.Lock()
	defer i.mtx.Unlock()

	if node.arena == nil {
		return fmt.Errorf("%w: empty handle", ErrForeignNode)
	}

	id, ok := i.byHash[node.Hash()]
	if !ok || id != node.id {
		return fmt.Errorf("%w: %v", ErrForeignNode, node)
	}

	if id == i.tip {
		return nil
	}

	old := i.nodeUnsafe(i.tip)
	i.tip = id

	log.Debugf("New best chain tip %v, previous tip %v", node, old)

	return nil
}

// FindFork returns the most recent common ancestor of the passed blocks.
func FindFork(a, b Node) Node {
	for a.Height() > b.Height() {
		a, _ = a.Parent()
	}
	for b.Height() > a.Height() {
		b, _ = b.Parent()
	}

	for !a.IsEqual(b) {
		parentA, okA := a.Parent()
		parentB, okB := b.Parent()
		if !okA || !okB {
			break
		}
		a, b = parentA, parentB
	}

	return a
}
