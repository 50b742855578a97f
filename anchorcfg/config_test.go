package anchorcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("ANCHOR_TEST_DIR", "/tmp/anchor")

	require.Empty(t, CleanAndExpandPath(""))
	require.Equal(
		t, "/tmp/anchor/data", CleanAndExpandPath("$ANCHOR_TEST_DIR/data/"),
	)
	require.Equal(t, "/a/c", CleanAndExpandPath("/a/b/../c"))

	home, err := os.UserHomeDir()
	if err == nil {
		require.Equal(
			t, filepath.Join(home, ".anchord"),
			CleanAndExpandPath("~/.anchord"),
		)
	}
}

func TestNormalizeNetwork(t *testing.T) {
	t.Parallel()

	require.Equal(t, "testnet", NormalizeNetwork("testnet3"))
	require.Equal(t, "mainnet", NormalizeNetwork("mainnet"))
	require.Equal(t, "regtest", NormalizeNetwork("regtest"))
}

func TestPrometheusEnabled(t *testing.T) {
	t.Parallel()

	p := DefaultPrometheus()
	require.False(t, p.Enabled())

	p.Listen = "127.0.0.1:8989"
	require.True(t, p.Enabled())
}
