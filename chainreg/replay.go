package chainreg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anchorchain/anchord/chainguard"
	"github.com/btcsuite/btcd/wire"
)

// ErrReplayInterrupted is returned when a replay is stopped by its quit
// channel before reaching the end of the input.
var ErrReplayInterrupted = errors.New("header replay interrupted")

// ReplayStats summarizes a header replay.
type ReplayStats struct {
	// Processed is the number of headers read from the input.
	Processed int

	// Accepted is the number of headers added to the index.
	Accepted int

	// Rejected is the number of headers refused by a consensus rule.
	Rejected int

	// Reorgs is the number of headers that became the best chain tip
	// without extending the previous one.
	Reorgs int
}

// ReplayHeaders reads consecutive serialized block headers from r and feeds
// them to the guard. Headers refused by a consensus rule are counted and
// skipped, any other error aborts the replay. Closing quit stops the replay
// after the current header.
func (c *ChainControl) ReplayHeaders(r io.Reader,
	quit <-chan struct{}) (*ReplayStats, error) {

	stats := &ReplayStats{}
	br := bufio.NewReader(r)
	buf := make([]byte, wire.MaxBlockHeaderPayload)
	for {
		select {
		case <-quit:
			return stats, ErrReplayInterrupted
		default:
		}

		_, err := io.ReadFull(br, buf)
		switch {
		case errors.Is(err, io.EOF):
			return stats, nil

		case err != nil:
			return stats, fmt.Errorf("unable to read header %d: %w",
				stats.Processed, err)
		}

		var header wire.BlockHeader
		err = header.Deserialize(bytes.NewReader(buf))
		if err != nil {
			return stats, fmt.Errorf("unable to decode header %d: "+
				"%w", stats.Processed, err)
		}
		stats.Processed++

		prevTip := c.Guard.Tip()
		isMainChain, err := c.Guard.ProcessHeader(&header)

		var ruleErr chainguard.RuleError
		switch {
		case errors.As(err, &ruleErr):
			stats.Rejected++
			continue

		case err != nil:
			return stats, err
		}

		stats.Accepted++
		if isMainChain && header.PrevBlock != prevTip.Hash() {
			stats.Reorgs++
		}
	}
}

// ReplayHeadersFile replays the headers stored in the named file.
func (c *ChainControl) ReplayHeadersFile(path string,
	quit <-chan struct{}) (*ReplayStats, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Infof("Replaying headers from %v", path)

	stats, err := c.ReplayHeaders(f, quit)
	if err != nil {
		return stats, err
	}

	log.Infof("Replayed %d header(s): %d accepted, %d rejected, "+
		"%d reorganization(s)", stats.Processed, stats.Accepted,
		stats.Rejected, stats.Reorgs)

	return stats, nil
}
