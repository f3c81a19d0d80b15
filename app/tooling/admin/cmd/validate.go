package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/chain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [chain]",
	Short: "Check the linkage and difficulty of a hex encoded chain",
	Args:  cobra.MaximumNArgs(1),
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) error {
	data, err := readChain(stdin, args)
	if err != nil {
		return err
	}

	res, err := chain.Validate(data)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Valid:  %t\n", res.Valid)
	fmt.Fprintf(out, "Blocks: %d\n", res.Blocks)

	if err != nil {
		fmt.Fprintf(out, "Error:  %s\n", err)
		return nil
	}

	fmt.Fprintf(out, "Tip:    %s\n", res.LastHash)

	return nil
}
