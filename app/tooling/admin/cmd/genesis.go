package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/codec"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var genesisTimestamp uint32

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Search for the smallest nonce that solves a genesis header",
	RunE:  genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
	genesisCmd.Flags().Uint32VarP(&genesisTimestamp, "timestamp", "t", genesis.Timestamp, "Timestamp of the genesis header.")
}

func genesisRun(cmd *cobra.Command, args []string) error {
	res, err := pow.Search(cmd.Context(), pow.Args{
		PrevHash:      codec.ZeroHash,
		Timestamp:     genesisTimestamp,
		MaxIterations: pow.Unlimited,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}

	block, err := codec.EncodeBlock(res.Header, []codec.Tx{codec.RewardTx(genesis.RewardAccount)})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Timestamp: %d\n", genesisTimestamp)
	fmt.Fprintf(out, "Nonce:     %s\n", res.Nonce.Dec())
	fmt.Fprintf(out, "Hash:      %s\n", res.Hash)
	fmt.Fprintf(out, "Attempts:  %d\n", res.Attempts)
	fmt.Fprintf(out, "Block:     %s\n", hexutil.Encode(block))

	return nil
}
