// Package state is the core API for the blockchain node and implements the
// rules for mining and for replacing the chain with a longer one.
//
// A State is a value. Every transition returns the next State and leaves the
// receiver untouched, so the one loop that owns the value is its only writer.
package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks and chains.
type EventHandler func(v string, args ...any)

// Mode represents what the node is doing between receives.
type Mode int

// Set of modes a node can be in.
const (
	Listening Mode = iota
	Mining
)

// String implements the fmt.Stringer interface.
func (m Mode) String() string {
	switch m {
	case Listening:
		return "listening"
	case Mining:
		return "mining"
	}
	return "unknown"
}

// Cursor represents where the next mining attempt picks up.
type Cursor struct {
	PrevHash  common.Hash
	Timestamp uint32
	Nonce     uint256.Int
}

// =============================================================================

// State represents the chain owned by a node and its mining cursor.
type State struct {
	mode   Mode
	chain  []byte
	blocks int
	tip    common.Hash
	cursor Cursor
}

// New constructs the state every node starts in: the genesis chain with the
// cursor ready to mine the second block at the specified timestamp.
func New(gen genesis.Genesis, timestamp uint32) State {
	return State{
		mode:   Listening,
		chain:  append([]byte(nil), gen.Block...),
		blocks: 1,
		tip:    gen.Hash,
		cursor: Cursor{
			PrevHash:  gen.Hash,
			Timestamp: timestamp,
		},
	}
}

// Mode returns what the node is doing.
func (s State) Mode() Mode {
	return s.mode
}

// Blocks returns the number of blocks in the chain.
func (s State) Blocks() int {
	return s.blocks
}

// Tip returns the double-hash of the last block header.
func (s State) Tip() common.Hash {
	return s.tip
}

// Cursor returns the current mining cursor.
func (s State) Cursor() Cursor {
	return s.cursor
}

// Chain returns a copy of the encoded chain.
func (s State) Chain() []byte {
	return append([]byte(nil), s.chain...)
}

// Timeout moves the node into mining after a receive found nothing.
func (s State) Timeout() State {
	s.mode = Mining
	return s
}

// =============================================================================

// Snapshot represents a read-only copy of the state for reporting.
type Snapshot struct {
	Mode   Mode
	Blocks int
	Tip    common.Hash
	Cursor Cursor
	Chain  []byte
}

// Snapshot returns a copy of the state that is safe to hand to other
// goroutines.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Mode:   s.mode,
		Blocks: s.blocks,
		Tip:    s.tip,
		Cursor: s.cursor,
		Chain:  s.Chain(),
	}
}
