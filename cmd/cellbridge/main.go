// Command cellbridge loads the CDS analytics add-in into an in-process host
// and calls its worksheet functions from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cdsmodel/cellbridge/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
