// Package pow implements the brute force nonce search that makes producing a
// block computationally expensive.
package pow

import (
	"context"
	"math"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Difficulty is the number of leading zero bytes a header's double-hash
// must have. It is never adjusted.
const Difficulty = 2

// Unlimited can be used as MaxIterations to search until a nonce is found or
// the context is cancelled.
const Unlimited uint64 = math.MaxUint64

// reportEvery is how often the number of attempts is reported on long
// searches. The context is checked at the same interval.
const reportEvery = 1 << 20

// =============================================================================

// Args represents the set of inputs for a search.
type Args struct {
	PrevHash      common.Hash
	Timestamp     uint32
	StartNonce    uint256.Int
	MaxIterations uint64
	EvHandler     func(v string, args ...any)
}

// Result represents the outcome of a search. When Found is false the
// iteration budget was exhausted and Next is where to resume.
type Result struct {
	Found    bool
	Nonce    uint256.Int // The accepted nonce when found.
	Hash     common.Hash // Double-hash of Header when found.
	Header   []byte      // The encoded 69 byte header when found.
	Next     uint256.Int // First nonce not yet tried.
	Attempts uint64
}

// Search tries nonces in increasing order starting at StartNonce and accepts
// the first header whose double-hash meets the difficulty. The accepted nonce
// is therefore the smallest solution at or above StartNonce.
func Search(ctx context.Context, args Args) (Result, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	nonce := args.StartNonce
	var attempts uint64

	for attempts < args.MaxIterations {
		if attempts%reportEvery == 0 {
			if ctx.Err() != nil {
				ev("pow: Search: CANCELLED")
				return Result{Next: nonce, Attempts: attempts}, ctx.Err()
			}
			if attempts > 0 {
				ev("pow: Search: attempts[%d]: nonce[%s]", attempts, nonce.Dec())
			}
		}

		header, err := codec.EncodeHeader(codec.NewHeader(args.PrevHash, args.Timestamp, nonce))
		if err != nil {
			return Result{Next: nonce, Attempts: attempts}, err
		}
		attempts++

		hash := codec.DoubleHash(header)
		if IsSolved(hash) {
			var next uint256.Int
			next.AddUint64(&nonce, 1)

			ev("pow: Search: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%s]: attempts[%d]", args.PrevHash, hash, nonce.Dec(), attempts)

			res := Result{
				Found:    true,
				Nonce:    nonce,
				Hash:     hash,
				Header:   header,
				Next:     next,
				Attempts: attempts,
			}
			return res, nil
		}

		nonce.AddUint64(&nonce, 1)
	}

	return Result{Next: nonce, Attempts: attempts}, nil
}

// IsSolved checks the hash has the required number of leading zero bytes.
func IsSolved(hash common.Hash) bool {
	for _, b := range hash[:Difficulty] {
		if b != 0 {
			return false
		}
	}

	return true
}
