package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RewardSender is the sender account used by the block reward. No real
// account may use it.
const RewardSender uint16 = 0

// Tx represents the single transaction record a block carries.
type Tx struct {
	Sender   uint16 `json:"sender"`
	Receiver uint16 `json:"receiver"`
}

// RewardTx constructs the reward transaction crediting the miner.
func RewardTx(miner uint16) Tx {
	return Tx{
		Sender:   RewardSender,
		Receiver: miner,
	}
}

// IsReward reports whether the transaction is a block reward.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardSender
}

// =============================================================================

// Block represents a header and its transactions as found on the chain.
type Block struct {
	Size   uint8
	Header Header
	Txs    []Tx
}

// EncodeBlock wraps an encoded header and the transactions with the leading
// size byte. The computed size can't exceed MaxBlockSize.
func EncodeBlock(header []byte, txs []Tx) ([]byte, error) {
	if len(header) != HeaderSize {
		return nil, fmt.Errorf("header is %d bytes, exp %d: %w", len(header), HeaderSize, ErrMalformedField)
	}

	size := BlockSize(len(txs))
	if size > MaxBlockSize {
		return nil, fmt.Errorf("size %d with %d txs, max %d: %w", size, len(txs), MaxBlockSize, ErrBlockTooLarge)
	}

	buf := make([]byte, size)
	buf[0] = byte(size)
	copy(buf[1:], header)
	buf[1+HeaderSize] = byte(len(txs))

	for i, tx := range txs {
		off := blockOverhead + TxSize*i
		binary.BigEndian.PutUint16(buf[off:], tx.Sender)
		binary.BigEndian.PutUint16(buf[off+2:], tx.Receiver)
	}

	return buf, nil
}

// DecodeBlock reads the block starting at offset and returns it along with
// the offset of the byte following it.
func DecodeBlock(data []byte, offset int) (Block, int, error) {
	if offset < 0 || offset >= len(data) {
		return Block{}, offset, fmt.Errorf("no size byte at offset %d of %d: %w", offset, len(data), ErrTruncatedBlock)
	}

	size := int(data[offset])
	end := offset + size
	if end > len(data) {
		return Block{}, offset, fmt.Errorf("size %d at offset %d, %d bytes remain: %w", size, offset, len(data)-offset, ErrTruncatedBlock)
	}

	// A declared size below the fixed overhead can't hold a header and would
	// stall any walk over the chain.
	if size < blockOverhead {
		return Block{}, offset, fmt.Errorf("size %d below minimum %d: %w", size, blockOverhead, ErrMalformedField)
	}

	raw := data[offset:end]

	header, err := DecodeHeader(raw[1 : 1+HeaderSize])
	if err != nil {
		return Block{}, offset, err
	}

	count := int(raw[1+HeaderSize])
	if size != BlockSize(count) {
		return Block{}, offset, fmt.Errorf("size %d doesn't match %d txs: %w", size, count, ErrMalformedField)
	}

	txs := make([]Tx, count)
	for i := range txs {
		off := blockOverhead + TxSize*i
		txs[i] = Tx{
			Sender:   binary.BigEndian.Uint16(raw[off:]),
			Receiver: binary.BigEndian.Uint16(raw[off+2:]),
		}
	}

	b := Block{
		Size:   uint8(size),
		Header: header,
		Txs:    txs,
	}

	return b, end, nil
}

// Encode writes the block back into its wire form.
func (b Block) Encode() ([]byte, error) {
	header, err := EncodeHeader(b.Header)
	if err != nil {
		return nil, err
	}

	return EncodeBlock(header, b.Txs)
}

// Hash returns the double-hash of the block header.
func (b Block) Hash() (common.Hash, error) {
	return b.Header.Hash()
}

// Miner returns the receiver of the reward transaction, if there is one.
func (b Block) Miner() (uint16, bool) {
	for _, tx := range b.Txs {
		if tx.IsReward() {
			return tx.Receiver, true
		}
	}

	return 0, false
}
