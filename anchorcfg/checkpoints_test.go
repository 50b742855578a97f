package anchorcfg

import (
	"testing"

	"github.com/anchorchain/anchord/checkpoints"
	"github.com/stretchr/testify/require"
)

const testHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

// TestParseCheckpoint checks the accepted and refused checkpoint formats.
func TestParseCheckpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		height int32
		valid  bool
	}{
		{name: "valid", input: "14:" + testHash, height: 14, valid: true},
		{name: "hex prefix", input: "0:0x" + testHash, valid: true},
		{name: "missing hash", input: "14"},
		{name: "extra field", input: "14:" + testHash + ":1"},
		{name: "bad height", input: "abc:" + testHash},
		{name: "negative height", input: "-1:" + testHash},
		{name: "height overflow", input: "4294967296:" + testHash},
		{name: "short hash", input: "14:00ff"},
		{name: "non hex hash", input: "14:" + testHash[:62] + "zz"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cp, err := ParseCheckpoint(test.input)
			if !test.valid {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.height, cp.Height)
			require.Equal(t, testHash, cp.Hash.String())
		})
	}

	_, err := ParseCheckpoint("-1:" + testHash)
	require.ErrorIs(t, err, checkpoints.ErrNegativeHeight)
}

// TestParseCheckpoints checks that the string form round trips and that a
// single bad entry fails the whole list.
func TestParseCheckpoints(t *testing.T) {
	t.Parallel()

	cps, err := ParseCheckpoints(nil)
	require.NoError(t, err)
	require.Nil(t, cps)

	cps, err = ParseCheckpoints([]string{"1:" + testHash, "2:" + testHash})
	require.NoError(t, err)
	require.Len(t, cps, 2)
	require.Equal(t, "2:"+testHash, cps[1].String())

	_, err = ParseCheckpoints([]string{"1:" + testHash, "2"})
	require.Error(t, err)
}
