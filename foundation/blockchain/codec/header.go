package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Header represents the fixed 69 byte record that identifies a block.
type Header struct {
	Version   uint8       // Always Version for headers produced by this node.
	PrevHash  []byte      // Double-hash of the prior header, 32 bytes.
	Timestamp uint32      // Seconds since epoch.
	Nonce     uint256.Int // Value varied until the puzzle is solved.
}

// NewHeader constructs a version 0 header linked to the specified hash.
func NewHeader(prevHash common.Hash, timestamp uint32, nonce uint256.Int) Header {
	return Header{
		Version:   Version,
		PrevHash:  prevHash.Bytes(),
		Timestamp: timestamp,
		Nonce:     nonce,
	}
}

// EncodeHeader writes the header in its 69 byte form. The previous hash must
// be exactly 32 bytes.
func EncodeHeader(h Header) ([]byte, error) {
	if len(h.PrevHash) != HashSize {
		return nil, fmt.Errorf("previous hash is %d bytes, exp %d: %w", len(h.PrevHash), HashSize, ErrMalformedField)
	}

	buf := make([]byte, HeaderSize)
	buf[offVersion] = h.Version
	copy(buf[offPrevHash:offTimestamp], h.PrevHash)
	binary.BigEndian.PutUint32(buf[offTimestamp:offNonce], h.Timestamp)

	nonce := h.Nonce.Bytes32()
	copy(buf[offNonce:], nonce[:])

	return buf, nil
}

// DecodeHeader reads a header from the first 69 bytes of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("got %d bytes, exp %d: %w", len(data), HeaderSize, ErrTruncatedHeader)
	}

	prevHash := make([]byte, HashSize)
	copy(prevHash, data[offPrevHash:offTimestamp])

	var nonce uint256.Int
	nonce.SetBytes32(data[offNonce:HeaderSize])

	h := Header{
		Version:   data[offVersion],
		PrevHash:  prevHash,
		Timestamp: binary.BigEndian.Uint32(data[offTimestamp:offNonce]),
		Nonce:     nonce,
	}

	return h, nil
}

// Hash returns the double-hash of the encoded header.
func (h Header) Hash() (common.Hash, error) {
	data, err := EncodeHeader(h)
	if err != nil {
		return common.Hash{}, err
	}

	return DoubleHash(data), nil
}

// PrevBlockHash returns the previous hash as a fixed size value. Callers
// must only use this on decoded or validated headers.
func (h Header) PrevBlockHash() common.Hash {
	return common.BytesToHash(h.PrevHash)
}

// String implements the fmt.Stringer interface for logging.
func (h Header) String() string {
	return fmt.Sprintf("v%d prev[%x] ts[%d] nonce[%s]", h.Version, h.PrevHash, h.Timestamp, h.Nonce.Dec())
}
