package pow_test

import (
	"context"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/holiman/uint256"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	genesisTimestamp = 1634700000
	genesisNonce     = 70822
	genesisHash      = "0x00001ff58495c3dc2a1aaa69ebca4e9b3e05e63e5a319fb73bcdccbcdbba1e72"
)

// =============================================================================

func Test_SearchGenesis(t *testing.T) {
	t.Log("Given the need to find the smallest nonce for the genesis header.")
	{
		res, err := pow.Search(context.Background(), pow.Args{
			PrevHash:      codec.ZeroHash,
			Timestamp:     genesisTimestamp,
			MaxIterations: pow.Unlimited,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to search: %v", failed, err)
		}

		if !res.Found {
			t.Fatalf("\t%s\tShould find a nonce.", failed)
		}
		t.Logf("\t%s\tShould find a nonce.", success)

		if res.Nonce.Uint64() != genesisNonce {
			t.Fatalf("\t%s\tShould find nonce %d, got %s.", failed, genesisNonce, res.Nonce.Dec())
		}
		t.Logf("\t%s\tShould find nonce %d.", success, genesisNonce)

		if res.Hash.Hex() != genesisHash || res.Hash[0] != 0 || res.Hash[1] != 0 {
			t.Fatalf("\t%s\tShould get hash %s, got %s.", failed, genesisHash, res.Hash.Hex())
		}
		t.Logf("\t%s\tShould get the known hash.", success)

		if res.Attempts != genesisNonce+1 || res.Next.Uint64() != genesisNonce+1 {
			t.Fatalf("\t%s\tShould report %d attempts, got %d next %s.", failed, genesisNonce+1, res.Attempts, res.Next.Dec())
		}
		t.Logf("\t%s\tShould report the attempts made.", success)

		if len(res.Header) != codec.HeaderSize || codec.DoubleHash(res.Header) != res.Hash {
			t.Fatalf("\t%s\tShould return the header that was hashed.", failed)
		}
		t.Logf("\t%s\tShould return the header that was hashed.", success)
	}
}

func Test_SearchBudget(t *testing.T) {
	type table struct {
		name   string
		start  uint64
		budget uint64
		found  bool
		next   uint64
	}

	tt := []table{
		{name: "zero", start: 0, budget: 0, found: false, next: 0},
		{name: "short", start: 0, budget: 1000, found: false, next: 1000},
		{name: "resume", start: 70000, budget: 1000, found: true, next: genesisNonce + 1},
		{name: "exact", start: genesisNonce, budget: 1, found: true, next: genesisNonce + 1},
		{name: "past", start: genesisNonce + 1, budget: 1, found: false, next: genesisNonce + 2},
	}

	t.Log("Given the need to bound a search by an iteration budget.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				res, err := pow.Search(context.Background(), pow.Args{
					PrevHash:      codec.ZeroHash,
					Timestamp:     genesisTimestamp,
					StartNonce:    *uint256.NewInt(tst.start),
					MaxIterations: tst.budget,
				})
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to search: %v", failed, testID, err)
				}

				if res.Found != tst.found {
					t.Fatalf("\t%s\tTest %d:\tShould get found %v, got %v.", failed, testID, tst.found, res.Found)
				}
				t.Logf("\t%s\tTest %d:\tShould get found %v.", success, testID, tst.found)

				if res.Next.Uint64() != tst.next {
					t.Fatalf("\t%s\tTest %d:\tShould resume at %d, got %s.", failed, testID, tst.next, res.Next.Dec())
				}
				t.Logf("\t%s\tTest %d:\tShould resume at %d.", success, testID, tst.next)

				if res.Found && res.Nonce.Uint64() != genesisNonce {
					t.Fatalf("\t%s\tTest %d:\tShould find %d, got %s.", failed, testID, genesisNonce, res.Nonce.Dec())
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SearchDeterministic(t *testing.T) {
	t.Log("Given the need for identical inputs to produce the identical nonce.")
	{
		args := pow.Args{
			PrevHash:      codec.ZeroHash,
			Timestamp:     genesisTimestamp + 60,
			MaxIterations: pow.Unlimited,
		}

		first, err := pow.Search(context.Background(), args)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to search: %v", failed, err)
		}

		second, err := pow.Search(context.Background(), args)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to search: %v", failed, err)
		}

		if first.Nonce != second.Nonce || first.Hash != second.Hash {
			t.Fatalf("\t%s\tShould find the same nonce, got %s and %s.", failed, first.Nonce.Dec(), second.Nonce.Dec())
		}
		t.Logf("\t%s\tShould find the same nonce.", success)
	}
}

func Test_IsSolved(t *testing.T) {
	t.Log("Given the need to check for two leading zero bytes.")
	{
		var hash [32]byte
		if !pow.IsSolved(hash) {
			t.Errorf("\t%s\tShould accept an all zero hash.", failed)
		}

		hash[2] = 0xff
		if !pow.IsSolved(hash) {
			t.Errorf("\t%s\tShould accept a hash with a non-zero third byte.", failed)
		}

		hash[1] = 0x01
		if pow.IsSolved(hash) {
			t.Errorf("\t%s\tShould reject a hash with a non-zero second byte.", failed)
		}
		t.Logf("\t%s\tShould check the leading bytes.", success)
	}
}
