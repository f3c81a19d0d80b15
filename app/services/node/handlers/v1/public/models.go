package public

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/balance"
	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ethereum/go-ethereum/common"
)

type cursor struct {
	PrevHash  common.Hash `json:"prev_hash"`
	Timestamp uint32      `json:"timestamp"`
	Nonce     string      `json:"nonce"`
}

type status struct {
	peer.PeerStatus
	Host   string       `json:"host"`
	Cursor cursor       `json:"cursor"`
	Stats  worker.Stats `json:"stats"`
}

type balances struct {
	LatestBlock common.Hash     `json:"latest_block"`
	Balances    []balance.Entry `json:"balances"`
}

type block struct {
	Number    int         `json:"number"`
	Offset    int         `json:"offset"`
	Size      uint8       `json:"size"`
	Hash      common.Hash `json:"hash"`
	PrevHash  common.Hash `json:"prev_hash"`
	Timestamp uint32      `json:"timestamp"`
	Nonce     string      `json:"nonce"`
	Txs       []codec.Tx  `json:"txs"`
}

func toCursor(c state.Cursor) cursor {
	return cursor{
		PrevHash:  c.PrevHash,
		Timestamp: c.Timestamp,
		Nonce:     c.Nonce.Dec(),
	}
}

func toBlock(entry chain.Entry) block {
	hash, _ := entry.Block.Hash()

	return block{
		Number:    entry.Number,
		Offset:    entry.Offset,
		Size:      entry.Block.Size,
		Hash:      hash,
		PrevHash:  entry.Block.Header.PrevBlockHash(),
		Timestamp: entry.Block.Header.Timestamp,
		Nonce:     entry.Block.Header.Nonce.Dec(),
		Txs:       entry.Block.Txs,
	}
}
