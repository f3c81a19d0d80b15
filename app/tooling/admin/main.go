// This program performs administrative tasks for the proof of work chain.
package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/powchain/app/tooling/admin/cmd"
	"github.com/ardanlabs/powchain/foundation/logger"
)

func main() {

	// Construct the application logger. Command output goes to stdout so
	// the log is kept on stderr.
	log, err := logger.New("ADMIN", "stderr")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cmd.Execute(log); err != nil {
		log.Errorw("admin", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}
