package blockindex

import (
	"fmt"
	"math/big"

	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// nodeID is the stable position of a block in the index arena.
type nodeID int32

// noParent is the parent id of the genesis block.
const noParent nodeID = -1

// blockNode is the arena entry for a single block. Entries are written once
// when the block is added and never modified afterwards.
type blockNode struct {
	header wire.BlockHeader
	hash   chainhash.Hash

	// parent is the arena position of the previous block, or noParent
	// for the genesis block. It is always smaller than the position of
	// the node itself.
	parent nodeID

	height int32

	// workSum is the total amount of work in the chain up to and
	// including this block.
	workSum *big.Int
}

// Node is a read only handle to a block in the index. It captures the arena as
// it was when the handle was created, so walking its ancestors is safe while
// other goroutines add blocks or move the best chain tip.
type Node struct {
	arena []blockNode
	id    nodeID
}

// A compile-time check to ensure Node can be walked by the checkpoint code.
var _ checkpoints.ChainNode[Node] = Node{}

func (n Node) entry() *blockNode {
	return &n.arena[n.id]
}

// Height returns the height of the block.
func (n Node) Height() int32 {
	return n.entry().height
}

// Hash returns the hash of the block.
func (n Node) Hash() chainhash.Hash {
	return n.entry().hash
}

// Header returns a copy of the block header.
func (n Node) Header() wire.BlockHeader {
	return n.entry().header
}

// WorkSum returns a copy of the total work of the chain ending at this block.
func (n Node) WorkSum() *big.Int {
	return new(big.Int).Set(n.entry().workSum)
}

// Parent returns the previous block, or false if n is the genesis block.
func (n Node) Parent() (Node, bool) {
	parent := n.entry().parent
	if parent == noParent {
		return Node{}, false
	}

	return Node{arena: n.arena, id: parent}, true
}

// Ancestor returns the ancestor of n at the passed height. False is returned
// if the height is negative or above the height of n.
func (n Node) Ancestor(height int32) (Node, bool) {
	if height < 0 || height > n.Height() {
		return Node{}, false
	}

	node := n
	for node.Height() > height {
		parent, ok := node.Parent()
		if !ok {
			return Node{}, false
		}
		node = parent
	}

	return node, true
}

// IsEqual returns whether both handles refer to the same block.
func (n Node) IsEqual(other Node) bool {
	return n.Hash() == other.Hash()
}

// String returns the height and hash of the block.
func (n Node) String() string {
	return fmt.Sprintf("%v (height %d)", n.Hash(), n.Height())
}
