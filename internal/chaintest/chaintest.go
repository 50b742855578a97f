// Package chaintest builds synthetic header chains for tests.
package chaintest

import (
	"bytes"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// RegTestBits is the proof of work limit of the regression test
	// network, the least amount of work a header can claim.
	RegTestBits = 0x207fffff

	// HeavyBits claims 256 times the work of RegTestBits.
	HeavyBits = 0x1f7fffff

	blockInterval = 10 * time.Minute
)

// Genesis returns a copy of the regression test network genesis header.
func Genesis() *wire.BlockHeader {
	header := chaincfg.RegressionNetParams.GenesisBlock.Header
	return &header
}

// ExtendChain returns n headers that build on parent, each claiming the
// minimum amount of work. Chains extended from the same parent with a
// different fork id never share a block.
func ExtendChain(parent *wire.BlockHeader, n int,
	fork uint32) []*wire.BlockHeader {

	return ExtendChainWithBits(parent, n, fork, RegTestBits)
}

// ExtendChainWithBits is ExtendChain with a custom difficulty.
func ExtendChainWithBits(parent *wire.BlockHeader, n int, fork,
	bits uint32) []*wire.BlockHeader {

	headers := make([]*wire.BlockHeader, 0, n)

	prev := parent
	for i := 0; i < n; i++ {
		header := &wire.BlockHeader{
			Version:   1,
			PrevBlock: prev.BlockHash(),
			MerkleRoot: chainhash.HashH(
				[]byte{byte(fork), byte(fork >> 8), byte(i)},
			),
			Timestamp: prev.Timestamp.Add(blockInterval),
			Bits:      bits,
			Nonce:     fork,
		}
		headers = append(headers, header)
		prev = header
	}

	return headers
}

// Hashes returns the block hashes of the passed headers.
func Hashes(headers []*wire.BlockHeader) []chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(headers))
	for _, header := range headers {
		hashes = append(hashes, header.BlockHash())
	}

	return hashes
}

// Serialize returns the wire encoding of the passed headers, one after the
// other, as found in a headers file.
func Serialize(headers []*wire.BlockHeader) ([]byte, error) {
	var b bytes.Buffer
	for _, header := range headers {
		if err := header.Serialize(&b); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}
