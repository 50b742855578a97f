package checkpoints

import (
	"errors"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrNegativeHeight is returned when a checkpoint is defined below the
	// genesis block.
	ErrNegativeHeight = errors.New("checkpoint height must not be negative")

	// ErrConflictingCheckpoint is returned when the same height is pinned
	// to two different hashes.
	ErrConflictingCheckpoint = errors.New("conflicting checkpoints for " +
		"height")

	// ErrGenesisMismatch is returned when an entry at height zero does not
	// match the network's genesis hash.
	ErrGenesisMismatch = errors.New("checkpoint at height 0 does not " +
		"match genesis")
)

// Checkpoint identifies a known good block in the chain by its height and
// hash.
type Checkpoint struct {
	Height int32
	Hash   chainhash.Hash
}

// String returns a height:hash representation of the checkpoint, which is the
// same format accepted by the addcheckpoint option.
func (c Checkpoint) String() string {
	return fmt.Sprintf("%d:%v", c.Height, c.Hash)
}

// Table is an immutable set of checkpoints for a single network. The zero
// value is not usable, construct one with NewTable or EmptyTable.
//
// All methods are safe for concurrent access.
type Table struct {
	// checkpoints is sorted by strictly increasing height.
	checkpoints []Checkpoint

	byHeight map[int32]chainhash.Hash
}

// EmptyTable returns a table without any checkpoints. Every height passes
// CheckHardened against it, so it disables hardening altogether.
func EmptyTable() *Table {
	return &Table{
		byHeight: make(map[int32]chainhash.Hash),
	}
}

// NewTable builds the checkpoint table for a network. The genesis hash is
// always pinned at height zero, the entries supply the remaining checkpoints
// and may be passed in any order.
func NewTable(genesis chainhash.Hash, entries []Checkpoint) (*Table, error) {
	all := make([]Checkpoint, 0, len(entries)+1)
	all = append(all, Checkpoint{Height: 0, Hash: genesis})
	all = append(all, entries...)

	return newTable(all, false)
}

// newTable sorts and validates the passed checkpoints. When replace is set a
// later entry for an already known height overrides the earlier one instead
// of being reported as a conflict.
func newTable(entries []Checkpoint, replace bool) (*Table, error) {
	t := &Table{
		byHeight: make(map[int32]chainhash.Hash, len(entries)),
	}

	for _, c := range entries {
		if c.Height < 0 {
			return nil, fmt.Errorf("%w: %v", ErrNegativeHeight, c)
		}

		existing, ok := t.byHeight[c.Height]
		switch {
		case !ok:
		case existing == c.Hash:
			continue

		// The genesis block can never be overridden.
		case c.Height == 0:
			return nil, fmt.Errorf("%w: have %v, got %v",
				ErrGenesisMismatch, existing, c.Hash)

		case !replace:
			return nil, fmt.Errorf("%w %d: %v and %v",
				ErrConflictingCheckpoint, c.Height, existing,
				c.Hash)
		}

		t.byHeight[c.Height] = c.Hash
	}

	t.checkpoints = make([]Checkpoint, 0, len(t.byHeight))
	for height, hash := range t.byHeight {
		t.checkpoints = append(t.checkpoints, Checkpoint{
			Height: height,
			Hash:   hash,
		})
	}
	sort.Slice(t.checkpoints, func(i, j int) bool {
		return t.checkpoints[i].Height < t.checkpoints[j].Height
	})

	return t, nil
}

// Merge returns a new table holding the checkpoints of t plus the extra ones.
// An extra checkpoint at a height t already pins replaces the existing entry,
// except for the genesis block which must stay as it is. The receiver is left
// untouched.
func (t *Table) Merge(extra []Checkpoint) (*Table, error) {
	if len(extra) == 0 {
		return t, nil
	}

	all := make([]Checkpoint, 0, len(t.checkpoints)+len(extra))
	all = append(all, t.checkpoints...)
	all = append(all, extra...)

	merged, err := newTable(all, true)
	if err != nil {
		return nil, err
	}

	log.Debugf("Merged %d extra checkpoint(s), table now has %d entries",
		len(extra), merged.Len())

	return merged, nil
}

// Lookup returns the hash pinned at the passed height. A height without a
// checkpoint yields None, which is the common case and not an error.
func (t *Table) Lookup(height int32) fn.Option[chainhash.Hash] {
	hash, ok := t.byHeight[height]
	if !ok {
		return fn.None[chainhash.Hash]()
	}

	return fn.Some(hash)
}

// HighestHeight returns the height of the most recent checkpoint, or zero when
// the table is empty.
func (t *Table) HighestHeight() int32 {
	if len(t.checkpoints) == 0 {
		return 0
	}

	return t.checkpoints[len(t.checkpoints)-1].Height
}

// Checkpoints returns a copy of all checkpoints ordered from oldest to newest.
func (t *Table) Checkpoints() []Checkpoint {
	cps := make([]Checkpoint, len(t.checkpoints))
	copy(cps, t.checkpoints)

	return cps
}

// Len returns the number of checkpoints in the table.
func (t *Table) Len() int {
	return len(t.checkpoints)
}

// CheckHardened returns whether the block hash at the passed height agrees
// with the table. Heights without a checkpoint always pass. A false result is a
// hard checkpoint violation: the block, and any chain containing it, must be
// rejected regardless of its proof of work.
func (t *Table) CheckHardened(height int32, hash *chainhash.Hash) bool {
	expected, ok := t.byHeight[height]
	if !ok {
		return true
	}

	if !expected.IsEqual(hash) {
		return false
	}

	log.Debugf("Verified checkpoint at height %d/block %v", height,
		expected)

	return true
}

// TotalBlocksEstimate returns the height of the most recent checkpoint. It is
// a lower bound hint for the length of the honest chain, not a verdict on any
// particular block.
func (t *Table) TotalBlocksEstimate() int32 {
	return t.HighestHeight()
}
