// Command housingd serves and queries housing statistics JSON documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/housingjson/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands with SilenceErrors have already reported through the formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
