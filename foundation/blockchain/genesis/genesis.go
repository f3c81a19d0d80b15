// Package genesis maintains the compiled-in genesis block every node starts
// from.
package genesis

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Values shared by all participants. The nonce is the smallest value that
// solves the puzzle for the timestamp and can be recomputed with the admin
// genesis command.
const (
	Timestamp     uint32 = 1634700000
	Nonce         uint64 = 70822
	RewardAccount uint16 = 0
)

// Genesis represents the genesis block.
type Genesis struct {
	Date          time.Time   `json:"date"`
	Timestamp     uint32      `json:"timestamp"`
	Nonce         uint64      `json:"nonce"`
	Difficulty    int         `json:"difficulty"`     // Number of leading zero bytes in a block hash.
	RewardAccount uint16      `json:"reward_account"` // Receiver of the genesis reward.
	Hash          common.Hash `json:"hash"`
	Block         []byte      `json:"-"` // The encoded genesis block.
}

// =============================================================================

// Load constructs the genesis block from the compiled-in values and checks
// the values still solve the puzzle.
func Load() (Genesis, error) {
	header, err := codec.EncodeHeader(codec.NewHeader(codec.ZeroHash, Timestamp, *uint256.NewInt(Nonce)))
	if err != nil {
		return Genesis{}, err
	}

	hash := codec.DoubleHash(header)
	if !pow.IsSolved(hash) {
		return Genesis{}, errors.New("genesis nonce does not solve the puzzle")
	}

	block, err := codec.EncodeBlock(header, []codec.Tx{codec.RewardTx(RewardAccount)})
	if err != nil {
		return Genesis{}, fmt.Errorf("encoding genesis block: %w", err)
	}

	gen := Genesis{
		Date:          time.Unix(int64(Timestamp), 0).UTC(),
		Timestamp:     Timestamp,
		Nonce:         Nonce,
		Difficulty:    pow.Difficulty,
		RewardAccount: RewardAccount,
		Hash:          hash,
		Block:         block,
	}

	return gen, nil
}
