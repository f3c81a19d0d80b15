// Package balance tallies the rewards each account has earned on a chain.
package balance

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
)

// Reward is the number of units credited by one reward transaction.
const Reward uint64 = 1

// Entry represents the balance of one account.
type Entry struct {
	Account uint16 `json:"account"`
	Balance uint64 `json:"balance"`
	Blocks  []int  `json:"blocks"` // Numbers of the blocks that paid the account.
}

// Sheet represents the balances of every account credited on a chain.
type Sheet struct {
	entries map[uint16]Entry
}

// FromChain walks the chain and credits the receiver of every reward
// transaction. Consensus rules are not checked, so the chain should already
// be validated.
func FromChain(data []byte) (Sheet, error) {
	entries, err := chain.Blocks(data)
	if err != nil {
		return Sheet{}, fmt.Errorf("tallying balances: %w", err)
	}

	sheet := Sheet{
		entries: make(map[uint16]Entry),
	}

	for _, entry := range entries {
		for _, tx := range entry.Block.Txs {
			if !tx.IsReward() {
				continue
			}

			e := sheet.entries[tx.Receiver]
			e.Account = tx.Receiver
			e.Balance += Reward
			e.Blocks = append(e.Blocks, entry.Number)
			sheet.entries[tx.Receiver] = e
		}
	}

	return sheet, nil
}

// Query returns the balance of the account.
func (s Sheet) Query(account uint16) (Entry, bool) {
	e, exists := s.entries[account]
	return e, exists
}

// Copy returns the balances ordered by account.
func (s Sheet) Copy() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Account < out[j].Account
	})

	return out
}
