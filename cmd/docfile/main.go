// Command docfile reads and edits a docfile database from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/jpl-au/docfile/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
