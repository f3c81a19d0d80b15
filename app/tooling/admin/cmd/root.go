// Package cmd contains the admin commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	log     *zap.SugaredLogger
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log the blockchain events.")
}

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Tools for building and inspecting proof of work chains",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command named on the command line.
func Execute(l *zap.SugaredLogger) error {
	log = l
	return rootCmd.ExecuteContext(context.Background())
}

// ev returns the event handler for the blockchain packages.
func ev(v string, args ...any) {
	if verbose && log != nil {
		log.Infow(fmt.Sprintf(v, args...))
	}
}

// readChain decodes a hex encoded chain from the argument, or from stdin
// when the argument is "-" or missing.
func readChain(in io.Reader, args []string) ([]byte, error) {
	var s string
	switch {
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading chain: %w", err)
		}
		s = string(data)

	default:
		s = args[0]
	}

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}

	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decoding chain: %w", err)
	}

	return data, nil
}

// stdin is replaced by tests.
var stdin io.Reader = os.Stdin
