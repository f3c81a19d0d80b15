// Package chain walks and validates encoded chains. A chain is nothing more
// than blocks written back to back, so the only way to find a block is to
// walk every block before it.
package chain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/common"
)

// Set of errors for chains that decode but break the consensus rules.
var (
	ErrEmptyChain       = errors.New("empty chain")
	ErrLinkageMismatch  = errors.New("previous hash does not match parent block")
	ErrDifficultyNotMet = errors.New("block hash does not meet difficulty")
)

// Result represents the outcome of validating a chain. On failure Blocks is
// the number of the block that failed and LastHash is the zero hash.
type Result struct {
	Valid    bool        `json:"valid"`
	Blocks   int         `json:"blocks"`
	LastHash common.Hash `json:"last_hash"`
}

// Validate walks the chain checking that every block links to the double-hash
// of the block before it and that its own double-hash meets the difficulty.
// The walk stops at the first block that fails.
func Validate(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrEmptyChain
	}

	expected := codec.ZeroHash
	var blocks int

	for it := NewIterator(data); !it.Done(); {
		entry, err := it.Next()
		if err != nil {
			return Result{Blocks: entry.Number}, fmt.Errorf("block %d: %w", entry.Number, err)
		}

		header := entry.Block.Header
		if !bytes.Equal(header.PrevHash, expected.Bytes()) {
			return Result{Blocks: entry.Number}, fmt.Errorf("block %d: got %x, exp %s: %w", entry.Number, header.PrevHash, expected, ErrLinkageMismatch)
		}

		hash, err := header.Hash()
		if err != nil {
			return Result{Blocks: entry.Number}, fmt.Errorf("block %d: %w", entry.Number, err)
		}

		if !pow.IsSolved(hash) {
			return Result{Blocks: entry.Number}, fmt.Errorf("block %d: hash %s: %w", entry.Number, hash, ErrDifficultyNotMet)
		}

		expected = hash
		blocks = entry.Number
	}

	res := Result{
		Valid:    true,
		Blocks:   blocks,
		LastHash: expected,
	}

	return res, nil
}

// Blocks decodes every block in the chain without checking any consensus
// rules.
func Blocks(data []byte) ([]Entry, error) {
	var entries []Entry

	for it := NewIterator(data); !it.Done(); {
		entry, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", entry.Number, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Append returns a new chain with the block written after the last block.
// The original chain is never modified.
func Append(data []byte, block []byte) []byte {
	out := make([]byte, 0, len(data)+len(block))
	out = append(out, data...)
	return append(out, block...)
}
