package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [chain]",
	Short: "Print every block of a hex encoded chain",
	Args:  cobra.MaximumNArgs(1),
	RunE:  inspectRun,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspectRun(cmd *cobra.Command, args []string) error {
	data, err := readChain(stdin, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Print what decodes even when a later block is malformed.
	it := chain.NewIterator(data)
	for !it.Done() {
		entry, err := it.Next()
		if err != nil {
			return fmt.Errorf("block %d: %w", entry.Number, err)
		}

		hash, err := entry.Block.Hash()
		if err != nil {
			return fmt.Errorf("block %d: %w", entry.Number, err)
		}

		start := entry.Offset - int(entry.Block.Size)
		fmt.Fprintf(out, "Block %d @%d size[%d]\n", entry.Number, start, entry.Block.Size)
		fmt.Fprintf(out, "  %s\n", entry.Block.Header)
		fmt.Fprintf(out, "  hash[%s]\n", hash)
		for _, tx := range entry.Block.Txs {
			fmt.Fprintf(out, "  tx %d -> %d\n", tx.Sender, tx.Receiver)
		}
	}

	return nil
}
