// Command quickmark is the CLI and LSP entrypoint for the Markdown linter.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ekropotin/quickmark-go/cmd/quickmark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr cli.ExitCoder
		if ok := asExitCoder(err, &exitErr); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func asExitCoder(err error, target *cli.ExitCoder) bool {
	coder, ok := err.(cli.ExitCoder)
	if !ok {
		return false
	}
	*target = coder
	return true
}
