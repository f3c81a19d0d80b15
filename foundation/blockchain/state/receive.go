package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
)

// Decision represents what was done with a chain received from the network.
type Decision struct {
	Adopted bool
	Result  chain.Result
	Reason  string
	Err     error // Why the chain failed validation, if it did.
}

// Receive validates a chain broadcast by another participant and adopts it
// only if it is valid and strictly longer than the local chain. An equal
// length chain is a fork that is left in place until one side grows. A chain
// that is rejected is never an error for the caller.
func (s State) Receive(remote []byte, timestamp uint32, evHandler EventHandler) (State, Decision) {
	ev := s.events(evHandler)

	res, err := chain.Validate(remote)
	if err != nil {
		ev("state: Receive: DISCARD: invalid chain: blk[%d]: %s", res.Blocks, err)
		return s, Decision{Result: res, Reason: "invalid", Err: err}
	}

	if res.Blocks <= s.blocks {
		ev("state: Receive: DISCARD: not longer: remote[%d]: local[%d]", res.Blocks, s.blocks)
		return s, Decision{Result: res, Reason: "not longer"}
	}

	next := State{
		mode:   Listening,
		chain:  append([]byte(nil), remote...),
		blocks: res.Blocks,
		tip:    res.LastHash,
		cursor: Cursor{
			PrevHash:  res.LastHash,
			Timestamp: timestamp,
		},
	}

	ev("state: Receive: ADOPT: remote[%d]: local[%d]: tip[%s]", res.Blocks, s.blocks, res.LastHash)

	return next, Decision{Adopted: true, Result: res, Reason: "longer"}
}
