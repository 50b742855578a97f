package anchorcfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ParseCheckpoint parses a checkpoint in the <height>:<hash> format used by
// the addcheckpoint option.
func ParseCheckpoint(s string) (checkpoints.Checkpoint, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return checkpoints.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q -- use the syntax <height>:<hash>", s)
	}

	height, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return checkpoints.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to malformed height: %w", s, err)
	}
	if height < 0 {
		return checkpoints.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q: %w", s, checkpoints.ErrNegativeHeight)
	}

	hashStr := strings.TrimPrefix(parts[1], "0x")
	if len(hashStr) != chainhash.MaxHashStringSize {
		return checkpoints.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to malformed hash: want %d hex "+
			"characters", s, chainhash.MaxHashStringSize)
	}

	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return checkpoints.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to malformed hash: %w", s, err)
	}

	return checkpoints.Checkpoint{
		Height: int32(height),
		Hash:   *hash,
	}, nil
}

// ParseCheckpoints parses every passed checkpoint string. See
// ParseCheckpoint for the format.
func ParseCheckpoints(strs []string) ([]checkpoints.Checkpoint, error) {
	if len(strs) == 0 {
		return nil, nil
	}

	cps := make([]checkpoints.Checkpoint, 0, len(strs))
	for _, s := range strs {
		cp, err := ParseCheckpoint(s)
		if err != nil {
			return nil, err
		}
		cps = append(cps, cp)
	}

	return cps, nil
}
