package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ekropotin/quickmark-go/internal/version"
)

// Exit codes shared across subcommands.
const (
	ExitOK = iota
	ExitLintIssues
	ExitConfigError
	ExitRuntimeError
)

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "quickmark",
		Usage:   "A linter for Markdown documents",
		Version: version.RawVersion(),
		Description: `quickmark is a fast, configurable linter for Markdown documents.

It checks your docs against a catalogue of style and correctness rules
(heading structure, list consistency, line length, link integrity, and
more), configurable per-project via quickmark.toml.

Examples:
  quickmark lint README.md
  quickmark lint docs/
  quickmark lint --format json .`,
		Commands: []*cli.Command{
			lintCommand(),
			lspCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
