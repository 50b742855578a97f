package lnutils

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestLogClosures(t *testing.T) {
	t.Parallel()

	header := struct{ Height int32 }{Height: 14}
	c := SpewLogClosure(&header)

	// The dump is taken when the closure is formatted, not when it is
	// created.
	header.Height = 38
	require.Contains(t, c.String(), "Height: (int32) 38")
}

func TestLogHash(t *testing.T) {
	t.Parallel()

	hash := chainhash.HashH([]byte("block"))
	attr := LogHash("hash", &hash)
	require.Equal(t, "hash", attr.Key)
	require.Equal(t, hash.String(), attr.Value.String())

	require.Equal(t, "<nil>", LogHash("hash", nil).Value.String())
}
