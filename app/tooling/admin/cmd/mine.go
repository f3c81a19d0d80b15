package cmd

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	mineBlocks   int
	mineMiner    uint16
	mineInterval uint32
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a chain on top of genesis without a network",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&mineBlocks, "blocks", "b", 1, "Number of blocks to mine after genesis.")
	mineCmd.Flags().Uint16VarP(&mineMiner, "miner", "m", 5000, "Account credited for the mined blocks.")
	mineCmd.Flags().Uint32VarP(&mineInterval, "interval", "i", 60, "Seconds between block timestamps.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	if mineBlocks < 0 {
		return errors.New("blocks must not be negative")
	}

	gen, err := genesis.Load()
	if err != nil {
		return err
	}

	timestamp := gen.Timestamp + mineInterval
	st := state.New(gen, timestamp)

	out := cmd.OutOrStdout()
	for st.Blocks() <= mineBlocks {
		timestamp += mineInterval

		next, mined, err := st.Timeout().Mine(cmd.Context(), state.MineArgs{
			Miner:     mineMiner,
			Budget:    pow.Unlimited,
			Timestamp: timestamp,
			EvHandler: ev,
		})
		if err != nil {
			return err
		}
		st = next

		fmt.Fprintf(out, "Block %d: %s\n", st.Blocks(), mined.Hash)
	}

	fmt.Fprintf(out, "Chain: %s\n", hexutil.Encode(st.Chain()))

	return nil
}
