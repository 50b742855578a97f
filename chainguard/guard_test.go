package chainguard

import (
	"sync"
	"testing"

	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/anchorchain/anchord/internal/chaintest"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// guardHarness bundles a guard with the headers of its main chain and the
// rejections it reported.
type guardHarness struct {
	guard   *Guard
	index   *blockindex.Index
	genesis *wire.BlockHeader

	mu       sync.Mutex
	rejected map[chainhash.Hash]ErrorCode
}

func newGuardHarness(t *testing.T, table *checkpoints.Table,
	syncSpan int32) *guardHarness {

	t.Helper()

	genesis := chaintest.Genesis()
	h := &guardHarness{
		index:    blockindex.New(genesis),
		genesis:  genesis,
		rejected: make(map[chainhash.Hash]ErrorCode),
	}
	h.guard = New(&Config{
		Checkpoints: table,
		Index:       h.index,
		SyncSpan:    syncSpan,
		OnReject: func(hash chainhash.Hash, code ErrorCode) {
			h.mu.Lock()
			defer h.mu.Unlock()

			h.rejected[hash] = code
		},
	})

	return h
}

// processAll feeds the headers to the guard and fails the test on any error.
// It returns whether the last header became the best chain tip.
func (h *guardHarness) processAll(t *testing.T,
	headers []*wire.BlockHeader) bool {

	t.Helper()

	var isMainChain bool
	for _, header := range headers {
		var err error
		isMainChain, err = h.guard.ProcessHeader(header)
		require.NoError(t, err)
	}

	return isMainChain
}

// requireRejected asserts that the header is refused with the passed code and
// that the rejection was reported.
func (h *guardHarness) requireRejected(t *testing.T, header *wire.BlockHeader,
	code ErrorCode) {

	t.Helper()

	isMainChain, err := h.guard.ProcessHeader(header)
	require.False(t, isMainChain)
	require.True(t, IsErrorCode(err, code), "expected %v, got %v", code, err)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Equal(t, code, h.rejected[header.BlockHash()])
}

// TestProcessHeaderExtendsChain checks that a plain chain is accepted and
// becomes the best chain.
func TestProcessHeaderExtendsChain(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(t, checkpoints.EmptyTable(), 0)
	headers := chaintest.ExtendChain(h.genesis, 120, 0)

	for _, header := range headers {
		isMainChain, err := h.guard.ProcessHeader(header)
		require.NoError(t, err)
		require.True(t, isMainChain)
	}

	require.EqualValues(t, 120, h.guard.Tip().Height())
	require.EqualValues(t, 20, h.guard.SyncCheckpoint().Height())
	require.False(t, h.guard.CheckSync(20))
	require.True(t, h.guard.CheckSync(21))
	require.True(t, h.guard.LastCheckpoint().IsNone())
	require.Zero(t, h.guard.TotalBlocksEstimate())

	h.requireRejected(t, headers[50], ErrDuplicateBlock)

	orphanParent := chaintest.ExtendChain(h.genesis, 1, 7)[0]
	orphan := chaintest.ExtendChain(orphanParent, 1, 7)[0]
	h.requireRejected(t, orphan, ErrOrphanBlock)
}

// TestProcessHeaderBadCheckpoint asserts that a header conflicting with a
// checkpoint is refused even when its chain has more work.
func TestProcessHeaderBadCheckpoint(t *testing.T) {
	t.Parallel()

	genesis := chaintest.Genesis()
	mainChain := chaintest.ExtendChain(genesis, 10, 0)

	table, err := checkpoints.NewTable(
		genesis.BlockHash(), []checkpoints.Checkpoint{
			{Height: 5, Hash: mainChain[4].BlockHash()},
		},
	)
	require.NoError(t, err)

	h := newGuardHarness(t, table, 0)

	// Before the checkpoint block is known a competing block at the
	// checkpoint height is refused outright.
	require.True(t, h.processAll(t, mainChain[:4]))
	heavy := chaintest.ExtendChainWithBits(
		mainChain[3], 1, 1, chaintest.HeavyBits,
	)
	h.requireRejected(t, heavy[0], ErrBadCheckpoint)
	require.EqualValues(t, 4, h.guard.Tip().Height())

	require.True(t, h.processAll(t, mainChain[4:]))
	require.EqualValues(t, 10, h.guard.Tip().Height())
	require.EqualValues(t, 5, h.guard.TotalBlocksEstimate())

	last := h.guard.LastCheckpoint().UnwrapOrFail(t)
	require.Equal(t, mainChain[4].BlockHash(), last.Hash())
}

// TestProcessHeaderForkTooOld asserts that forks below the last known
// checkpoint are refused.
func TestProcessHeaderForkTooOld(t *testing.T) {
	t.Parallel()

	genesis := chaintest.Genesis()
	mainChain := chaintest.ExtendChain(genesis, 20, 0)

	table, err := checkpoints.NewTable(
		genesis.BlockHash(), []checkpoints.Checkpoint{
			{Height: 5, Hash: mainChain[4].BlockHash()},
		},
	)
	require.NoError(t, err)

	h := newGuardHarness(t, table, 0)
	require.True(t, h.processAll(t, mainChain))

	// Forking at height 3 is below the checkpoint at height 5.
	fork := chaintest.ExtendChainWithBits(
		mainChain[1], 1, 1, chaintest.HeavyBits,
	)
	h.requireRejected(t, fork[0], ErrForkTooOld)

	// Forking above the checkpoint is still allowed.
	fork = chaintest.ExtendChain(mainChain[5], 1, 1)
	isMainChain, err := h.guard.ProcessHeader(fork[0])
	require.NoError(t, err)
	require.False(t, isMainChain)
}

// TestProcessHeaderSyncCheckpoint checks that forks at or behind the sync
// checkpoint are refused while shallower reorganizations go through.
func TestProcessHeaderSyncCheckpoint(t *testing.T) {
	t.Parallel()

	const syncSpan = 10

	h := newGuardHarness(t, checkpoints.EmptyTable(), syncSpan)
	mainChain := chaintest.ExtendChain(h.genesis, 30, 0)
	require.True(t, h.processAll(t, mainChain))
	require.EqualValues(t, 20, h.guard.SyncCheckpoint().Height())

	// A block at height 20 would replace the sync checkpoint itself.
	deep := chaintest.ExtendChainWithBits(
		mainChain[18], 1, 1, chaintest.HeavyBits,
	)
	h.requireRejected(t, deep[0], ErrForkBehindSyncCheckpoint)

	// A fork starting at height 21 is tolerated and takes over once it
	// has more work.
	side := chaintest.ExtendChain(mainChain[19], 11, 2)
	require.False(t, h.processAll(t, side[:10]))
	require.Equal(t, mainChain[29].BlockHash(), h.guard.Tip().Hash())

	isMainChain, err := h.guard.ProcessHeader(side[10])
	require.NoError(t, err)
	require.True(t, isMainChain)
	require.Equal(t, side[10].BlockHash(), h.guard.Tip().Hash())
	require.EqualValues(t, 31, h.guard.Tip().Height())
	require.EqualValues(t, 21, h.guard.SyncCheckpoint().Height())
}

// TestProcessHeaderSideChainBehindSyncCheckpoint checks that a side chain
// grown while the sync checkpoint was still below its fork point can no
// longer be extended or take over once the sync checkpoint passes the fork
// point, even though its own blocks are above the sync checkpoint.
func TestProcessHeaderSideChainBehindSyncCheckpoint(t *testing.T) {
	t.Parallel()

	const syncSpan = 10

	h := newGuardHarness(t, checkpoints.EmptyTable(), syncSpan)
	mainChain := chaintest.ExtendChain(h.genesis, 40, 0)
	sideChain := chaintest.ExtendChain(mainChain[4], 35, 3)

	require.True(t, h.processAll(t, mainChain[:5]))

	// The side chain forks at height 5 and grows along with the main
	// chain while the sync checkpoint stays below height 6.
	for i := 5; i < 15; i++ {
		require.True(t, h.processAll(t, mainChain[i:i+1]))
		require.False(t, h.processAll(t, sideChain[i-5:i-4]))
	}
	require.EqualValues(t, 15, h.guard.Tip().Height())
	require.EqualValues(t, 5, h.guard.SyncCheckpoint().Height())

	// Block 6 of the main chain is now the sync checkpoint. The next side
	// chain block at height 16 would be above it, but its chain replaces
	// everything from height 6 on.
	require.True(t, h.processAll(t, mainChain[15:16]))
	require.EqualValues(t, 6, h.guard.SyncCheckpoint().Height())
	require.True(t, h.guard.CheckSync(16))

	h.requireRejected(t, sideChain[10], ErrForkBehindSyncCheckpoint)

	heavy := chaintest.ExtendChainWithBits(
		sideChain[9], 1, 4, chaintest.HeavyBits,
	)
	h.requireRejected(t, heavy[0], ErrForkBehindSyncCheckpoint)
	require.Equal(t, mainChain[15].BlockHash(), h.guard.Tip().Hash())

	// The main chain keeps growing and the side chain stays dead.
	require.True(t, h.processAll(t, mainChain[16:]))
	require.EqualValues(t, 30, h.guard.SyncCheckpoint().Height())

	heavy = chaintest.ExtendChainWithBits(
		sideChain[9], 1, 5, chaintest.HeavyBits,
	)
	h.requireRejected(t, heavy[0], ErrForkBehindSyncCheckpoint)
	require.Equal(t, mainChain[39].BlockHash(), h.guard.Tip().Hash())

	// A side chain forking above the sync checkpoint is still accepted.
	shallow := chaintest.ExtendChain(mainChain[34], 1, 6)
	require.False(t, h.processAll(t, shallow))
}

// TestErrorCodeStringer asserts every error code has a name.
func TestErrorCodeStringer(t *testing.T) {
	t.Parallel()

	for code := ErrorCode(0); code < numErrorCodes; code++ {
		require.NotContains(t, code.String(), "Unknown")
	}
	require.Contains(t, numErrorCodes.String(), "Unknown")

	err := ruleError(ErrBadCheckpoint, "bad")
	require.EqualError(t, err, "bad")
	require.True(t, IsErrorCode(err, ErrBadCheckpoint))
	require.False(t, IsErrorCode(err, ErrForkTooOld))
}
