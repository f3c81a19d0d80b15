package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_HeaderRoundTrip(t *testing.T) {
	type table struct {
		name   string
		header codec.Header
	}

	maxNonce := new(uint256.Int).SetAllOne()

	tt := []table{
		{
			name:   "genesis",
			header: codec.NewHeader(codec.ZeroHash, 1634700000, *uint256.NewInt(70822)),
		},
		{
			name:   "max",
			header: codec.NewHeader(common.BytesToHash(bytes.Repeat([]byte{0xff}, 32)), 0xffffffff, *maxNonce),
		},
		{
			name: "version",
			header: codec.Header{
				Version:   7,
				PrevHash:  bytes.Repeat([]byte{0xab}, 32),
				Timestamp: 1,
			},
		},
	}

	t.Log("Given the need to encode and decode headers.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling header %q.", testID, tst.name)
				{
					data, err := codec.EncodeHeader(tst.header)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to encode the header: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to encode the header.", success, testID)

					if len(data) != codec.HeaderSize {
						t.Fatalf("\t%s\tTest %d:\tShould get %d bytes, got %d.", failed, testID, codec.HeaderSize, len(data))
					}
					t.Logf("\t%s\tTest %d:\tShould get %d bytes.", success, testID, codec.HeaderSize)

					got, err := codec.DecodeHeader(data)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to decode the header: %v", failed, testID, err)
					}

					if got.Version != tst.header.Version || got.Timestamp != tst.header.Timestamp || got.Nonce != tst.header.Nonce || !bytes.Equal(got.PrevHash, tst.header.PrevHash) {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.header)
						t.Fatalf("\t%s\tTest %d:\tShould get back the same header.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same header.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_HeaderLayout(t *testing.T) {
	t.Log("Given the need to write headers in a fixed big-endian layout.")
	{
		h := codec.NewHeader(codec.ZeroHash, 1634700000, *uint256.NewInt(70822))

		data, err := codec.EncodeHeader(h)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to encode the header: %v", failed, err)
		}

		if data[0] != 0 {
			t.Errorf("\t%s\tShould write the version first, got %d.", failed, data[0])
		}

		if !bytes.Equal(data[33:37], []byte{0x61, 0x6f, 0x8a, 0xe0}) {
			t.Errorf("\t%s\tShould write the timestamp big-endian, got %x.", failed, data[33:37])
		}

		if !bytes.Equal(data[66:69], []byte{0x01, 0x14, 0xa6}) || !bytes.Equal(data[37:66], make([]byte, 29)) {
			t.Errorf("\t%s\tShould write the nonce big-endian in 32 bytes, got %x.", failed, data[37:])
		}
		t.Logf("\t%s\tShould write the fields in order.", success)
	}
}

func Test_HeaderErrors(t *testing.T) {
	t.Log("Given the need to reject malformed header data.")
	{
		_, err := codec.EncodeHeader(codec.Header{PrevHash: make([]byte, 31)})
		if !errors.Is(err, codec.ErrMalformedField) {
			t.Fatalf("\t%s\tShould reject a 31 byte previous hash, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a 31 byte previous hash.", success)

		_, err = codec.DecodeHeader(make([]byte, codec.HeaderSize-1))
		if !errors.Is(err, codec.ErrTruncatedHeader) {
			t.Fatalf("\t%s\tShould reject 68 bytes, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject 68 bytes.", success)
	}
}

// =============================================================================

func Test_BlockRoundTrip(t *testing.T) {
	type table struct {
		name string
		txs  []codec.Tx
	}

	tt := []table{
		{name: "empty", txs: []codec.Tx{}},
		{name: "reward", txs: []codec.Tx{codec.RewardTx(5001)}},
		{name: "full", txs: make([]codec.Tx, 46)},
	}

	t.Log("Given the need to encode and decode blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				h := codec.NewHeader(codec.ZeroHash, 1634700000, *uint256.NewInt(uint64(testID)))
				header, err := codec.EncodeHeader(h)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to encode the header: %v", failed, testID, err)
				}

				data, err := codec.EncodeBlock(header, tst.txs)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to encode the block: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to encode the block.", success, testID)

				exp := 1 + 69 + 1 + 4*len(tst.txs)
				if len(data) != exp || int(data[0]) != exp {
					t.Fatalf("\t%s\tTest %d:\tShould get size %d, got len %d byte %d.", failed, testID, exp, len(data), data[0])
				}
				t.Logf("\t%s\tTest %d:\tShould get size %d.", success, testID, exp)

				blk, next, err := codec.DecodeBlock(data, 0)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to decode the block: %v", failed, testID, err)
				}

				if next != len(data) {
					t.Fatalf("\t%s\tTest %d:\tShould advance to %d, got %d.", failed, testID, len(data), next)
				}

				again, err := blk.Encode()
				if err != nil || !bytes.Equal(again, data) {
					t.Fatalf("\t%s\tTest %d:\tShould re-encode to the same bytes: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the same block.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_BlockErrors(t *testing.T) {
	header := make([]byte, codec.HeaderSize)

	t.Log("Given the need to reject blocks that break the layout.")
	{
		_, err := codec.EncodeBlock(header, make([]codec.Tx, 47))
		if !errors.Is(err, codec.ErrBlockTooLarge) {
			t.Fatalf("\t%s\tShould reject a 259 byte block, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a 259 byte block.", success)

		_, err = codec.EncodeBlock(header[:68], nil)
		if !errors.Is(err, codec.ErrMalformedField) {
			t.Fatalf("\t%s\tShould reject a short header, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a short header.", success)

		data, err := codec.EncodeBlock(header, []codec.Tx{codec.RewardTx(1)})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to encode the block: %v", failed, err)
		}

		_, _, err = codec.DecodeBlock(data[:len(data)-1], 0)
		if !errors.Is(err, codec.ErrTruncatedBlock) {
			t.Fatalf("\t%s\tShould reject a block missing its last byte, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a block missing its last byte.", success)

		_, _, err = codec.DecodeBlock(data, len(data))
		if !errors.Is(err, codec.ErrTruncatedBlock) {
			t.Fatalf("\t%s\tShould reject an offset past the end, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject an offset past the end.", success)

		bad := append([]byte(nil), data...)
		bad[70] = 2
		_, _, err = codec.DecodeBlock(bad, 0)
		if !errors.Is(err, codec.ErrMalformedField) {
			t.Fatalf("\t%s\tShould reject a count that disagrees with the size, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a count that disagrees with the size.", success)

		_, _, err = codec.DecodeBlock([]byte{0}, 0)
		if !errors.Is(err, codec.ErrMalformedField) {
			t.Fatalf("\t%s\tShould reject a zero size byte, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a zero size byte.", success)
	}
}

func Test_DoubleHash(t *testing.T) {
	t.Log("Given the need to hash the genesis header twice with sha256.")
	{
		h := codec.NewHeader(codec.ZeroHash, 1634700000, *uint256.NewInt(70822))

		hash, err := h.Hash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash the header: %v", failed, err)
		}

		const exp = "0x00001ff58495c3dc2a1aaa69ebca4e9b3e05e63e5a319fb73bcdccbcdbba1e72"
		if hash.Hex() != exp {
			t.Logf("\t%s\tgot: %s", failed, hash.Hex())
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould get the known genesis hash.", failed)
		}
		t.Logf("\t%s\tShould get the known genesis hash.", success)
	}
}
