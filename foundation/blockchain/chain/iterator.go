package chain

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
)

// Entry represents a block found while walking a chain.
type Entry struct {
	Block  codec.Block
	Number int // Block number in the chain, starting at 1.
	Offset int // Offset of the byte following this block.
}

// Iterator walks the blocks of an encoded chain by reading each size byte
// and advancing. It can only move forward; construct a new iterator to walk
// the chain again.
type Iterator struct {
	data   []byte
	offset int
	number int
	err    error
}

// NewIterator constructs an iterator positioned at the first block.
func NewIterator(data []byte) *Iterator {
	return &Iterator{data: data}
}

// Next decodes the next block. Once an error is returned the iterator is
// done and the entry carries the number of the block that failed.
func (it *Iterator) Next() (Entry, error) {
	if it.err != nil {
		return Entry{Number: it.number + 1, Offset: it.offset}, it.err
	}

	block, next, err := codec.DecodeBlock(it.data, it.offset)
	if err != nil {
		it.err = err
		return Entry{Number: it.number + 1, Offset: it.offset}, err
	}

	it.number++
	it.offset = next

	entry := Entry{
		Block:  block,
		Number: it.number,
		Offset: next,
	}

	return entry, nil
}

// Done returns true when the walk reached the end of the chain or failed.
func (it *Iterator) Done() bool {
	return it.err != nil || it.offset >= len(it.data)
}
