// Package codec implements the fixed binary layout for headers, blocks and
// chains that every node on the network must agree on byte for byte.
package codec

import (
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Set of sizes that make up the wire layout. All multi byte integers are
// written in big-endian order.
const (
	Version      = 0   // The only header version currently produced.
	HashSize     = 32  // Size of a previous hash and of a double-hash.
	HeaderSize   = 69  // version(1) + prev hash(32) + timestamp(4) + nonce(32).
	TxSize       = 4   // sender(2) + receiver(2).
	MaxBlockSize = 255 // A block size must fit in its single size byte.

	// blockOverhead is the size byte, the header and the transaction count.
	blockOverhead = 1 + HeaderSize + 1
)

// Offsets of the header fields.
const (
	offVersion   = 0
	offPrevHash  = 1
	offTimestamp = offPrevHash + HashSize
	offNonce     = offTimestamp + 4
)

// Set of errors for structural problems with encoded data.
var (
	ErrMalformedField  = errors.New("malformed field")
	ErrTruncatedHeader = errors.New("truncated header")
	ErrTruncatedBlock  = errors.New("truncated block")
	ErrBlockTooLarge   = errors.New("block too large")
)

// ZeroHash is the previous hash carried by the first block of every chain.
var ZeroHash common.Hash

// DoubleHash returns sha256(sha256(data)), the digest used both to link
// blocks together and to measure proof of work.
func DoubleHash(data []byte) common.Hash {
	first := sha256.Sum256(data)
	return common.Hash(sha256.Sum256(first[:]))
}

// BlockSize returns the encoded size of a block carrying the specified
// number of transactions.
func BlockSize(txCount int) int {
	return blockOverhead + TxSize*txCount
}
