package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/anchorchain/anchord/chainreg"
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/anchorchain/anchord/internal/chaintest"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func newTestControl(t *testing.T,
	extra ...checkpoints.Checkpoint) *chainreg.ChainControl {

	t.Helper()

	cc, err := chainreg.NewChainControl(&chainreg.Config{
		ActiveNetParams: chainreg.RegTestNetParams,
		AddCheckpoints:  extra,
		SyncSpan:        4,
	})
	require.NoError(t, err)

	return cc
}

func TestCheckHardenedResponse(t *testing.T) {
	t.Parallel()

	table, err := chainreg.MainNetParams.CheckpointTable()
	require.NoError(t, err)

	genesis := *chainreg.MainNetParams.GenesisHash
	resp := newCheckHardenedResponse(table, 0, &genesis)
	require.True(t, resp.Hardened)
	require.Equal(t, genesis.String(), resp.Checkpoint)

	other := chainhash.HashH([]byte("other"))
	resp = newCheckHardenedResponse(table, 0, &other)
	require.False(t, resp.Hardened)

	resp = newCheckHardenedResponse(table, 1, &other)
	require.True(t, resp.Hardened)
	require.Empty(t, resp.Checkpoint)
}

func TestRenderCheckpoints(t *testing.T) {
	t.Parallel()

	table, err := chainreg.MainNetParams.CheckpointTable()
	require.NoError(t, err)

	var b bytes.Buffer
	renderCheckpoints(&b, table.Checkpoints())

	out := b.String()
	require.Contains(t, out, "HEIGHT")
	require.Contains(t, out, chainreg.MainNetParams.GenesisHash.String())
	require.Contains(t, out, "549333")
}

func TestChainResponses(t *testing.T) {
	t.Parallel()

	headers := chaintest.ExtendChain(chaintest.Genesis(), 10, 0)
	cc := newTestControl(t, checkpoints.Checkpoint{
		Height: 3,
		Hash:   headers[2].BlockHash(),
	})
	for _, header := range headers {
		_, err := cc.Guard.ProcessHeader(header)
		require.NoError(t, err)
	}

	last := newLastCheckpointResponse(cc.Guard)
	require.EqualValues(t, 10, last.Tip.Height)
	require.EqualValues(t, 3, last.Checkpoint.Height)
	require.Equal(t, headers[2].BlockHash().String(), last.Checkpoint.Hash)

	sync := newSyncCheckpointResponse(cc.Guard)
	require.EqualValues(t, 6, sync.SyncCheckpoint.Height)
	require.Equal(t, headers[5].BlockHash().String(), sync.SyncCheckpoint.Hash)

	var b bytes.Buffer
	require.NoError(t, writeJSON(&b, sync))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b.Bytes(), &decoded))
	require.Contains(t, decoded, "sync_checkpoint")
	require.NotContains(t, decoded, "check_sync")
}

func TestLastCheckpointNone(t *testing.T) {
	t.Parallel()

	cc := newTestControl(t)
	resp := newLastCheckpointResponse(cc.Guard)
	require.Nil(t, resp.Checkpoint)
	require.Zero(t, resp.Tip.Height)
}

func TestParseHeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		height string
		want   int32
		valid  bool
	}{
		{name: "zero", height: "0", valid: true},
		{name: "checkpoint", height: "549333", want: 549333, valid: true},
		{
			name:   "max int32",
			height: "2147483647",
			want:   2147483647,
			valid:  true,
		},
		{name: "negative", height: "-1", want: -1, valid: true},
		{name: "above int32", height: "2147483648"},
		{name: "wraps to small height", height: "4294967446"},
		{name: "not a number", height: "tip"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			height, err := parseHeight(test.height)
			if !test.valid {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.want, height)
		})
	}
}

// TestHeightArgumentsOutOfRange checks that commands refuse heights and
// spans that do not fit an int32 instead of truncating them.
func TestHeightArgumentsOutOfRange(t *testing.T) {
	t.Parallel()

	genesis := chainreg.RegTestNetParams.GenesisHash.String()

	tests := []struct {
		name string
		args []string
		err  string
	}{
		{
			name: "sync check height",
			args: []string{
				"--network", "regtest", "synccheckpoint",
				"--checkheight", "4294967446",
			},
			err: "unable to decode height",
		},
		{
			name: "hardened height",
			args: []string{
				"--network", "regtest", "checkhardened",
				"4294967310", genesis,
			},
			err: "unable to decode height",
		},
		{
			name: "sync span",
			args: []string{
				"--network", "regtest", "--syncspan",
				"4294967396", "synccheckpoint",
			},
			err: "syncspan 4294967396 out of range",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"anchorcli"}, test.args...)
			err := newApp().Run(args)
			require.ErrorContains(t, err, test.err)
		})
	}
}
