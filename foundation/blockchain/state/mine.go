package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MineArgs represents the set of inputs for one mining attempt.
type MineArgs struct {
	Miner     uint16 // Account credited by the reward transaction.
	Budget    uint64 // Number of nonces to try in this attempt.
	Timestamp uint32 // Timestamp used for the next block if this one is found.
	EvHandler EventHandler
}

// Mined represents the outcome of a mining attempt. Chain is only set when a
// block was found and is the full chain to broadcast.
type Mined struct {
	Found bool
	Block []byte
	Hash  common.Hash
	Chain []byte
}

// Mine runs one bounded proof of work attempt from the cursor. A solution
// appends a block carrying the reward transaction and moves the cursor to the
// new tip. Otherwise the cursor nonce advances by the budget and the node
// stays in mining. An error means locally built data is malformed.
func (s State) Mine(ctx context.Context, args MineArgs) (State, Mined, error) {
	ev := s.events(args.EvHandler)

	ev("state: Mine: MINING: started: blk[%d]: nonce[%s]: budget[%d]", s.blocks+1, s.cursor.Nonce.Dec(), args.Budget)

	res, err := pow.Search(ctx, pow.Args{
		PrevHash:      s.cursor.PrevHash,
		Timestamp:     s.cursor.Timestamp,
		StartNonce:    s.cursor.Nonce,
		MaxIterations: args.Budget,
		EvHandler:     ev,
	})
	if err != nil {
		return s, Mined{}, fmt.Errorf("searching: %w", err)
	}

	if !res.Found {
		ev("state: Mine: MINING: budget exhausted: next nonce[%s]", res.Next.Dec())

		s.mode = Mining
		s.cursor.Nonce = res.Next
		return s, Mined{}, nil
	}

	block, err := codec.EncodeBlock(res.Header, []codec.Tx{codec.RewardTx(args.Miner)})
	if err != nil {
		return s, Mined{}, fmt.Errorf("encoding block: %w", err)
	}

	next := State{
		mode:   Listening,
		chain:  chain.Append(s.chain, block),
		blocks: s.blocks + 1,
		tip:    res.Hash,
		cursor: Cursor{
			PrevHash:  res.Hash,
			Timestamp: args.Timestamp,
			Nonce:     uint256.Int{},
		},
	}

	ev("state: Mine: MINING: SOLVED: blk[%d]: hash[%s]: nonce[%s]", next.blocks, res.Hash, res.Nonce.Dec())

	mined := Mined{
		Found: true,
		Block: block,
		Hash:  res.Hash,
		Chain: next.Chain(),
	}

	return next, mined, nil
}

// events returns a handler that is always safe to call.
func (s State) events(ev EventHandler) EventHandler {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
