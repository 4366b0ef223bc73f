package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/ekropotin/quickmark-go/internal/discovery"
	"github.com/ekropotin/quickmark-go/internal/linter"
	"github.com/ekropotin/quickmark-go/internal/reporter"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/version"
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint Markdown documents",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json, sarif, github-actions, markdown",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Write report to a file instead of stdout",
				Value: "stdout",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored text output",
			},
			&cli.BoolFlag{
				Name:  "show-source",
				Usage: "Include a source snippet for each violation (text format)",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity that causes a non-zero exit: warning or error",
				Value: "error",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern to exclude from discovery (repeatable)",
			},
		},
		Action: runLint,
	}
}

func runLint(_ context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	failLevel, err := rules.ParseSeverity(cmd.String("fail-level"))
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	files, err := discovery.Discover(paths, discovery.Options{
		ExcludePatterns: cmd.StringSlice("exclude"),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("discovering files: %v", err), ExitRuntimeError)
	}
	if len(files) == 0 {
		logrus.Warn("no markdown files found")
	}

	writer, closeWriter, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	defer closeWriter() //nolint:errcheck // best-effort flush on exit

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      writer,
		Color:       colorOption(cmd),
		ShowSource:  cmd.Bool("show-source"),
		ToolVersion: version.RawVersion(),
		ToolName:    "quickmark",
		ToolURI:     "https://github.com/ekropotin/quickmark-go",
	})
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	var (
		allViolations []rules.Violation
		sources       = map[string][]byte{}
		severities    = map[string]rules.Severity{}
		worstSeen     = rules.SeverityOff
	)

	for _, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			logrus.WithField("file", f.Path).WithError(err).Error("failed to read file")
			continue
		}
		sources[f.Path] = content

		result, err := linter.LintFile(linter.Input{
			FilePath: f.Path,
			Content:  content,
			Channel:  logrusChannel{},
		})
		if err != nil {
			logrus.WithField("file", f.Path).WithError(err).Error("lint failed")
			continue
		}

		for alias, sev := range result.Config.Severity {
			severities[alias] = sev
		}
		for _, v := range result.Violations {
			if sev := severities[v.Rule.Alias]; sev > worstSeen {
				worstSeen = sev
			}
		}
		allViolations = append(allViolations, result.Violations...)
	}

	rulesEnabled := 0
	if len(severities) > 0 {
		for _, sev := range severities {
			if sev != rules.SeverityOff {
				rulesEnabled++
			}
		}
	} else {
		rulesEnabled = len(rules.DefaultRegistry().All())
	}

	sorted := reporter.SortViolations(allViolations)
	if err := rep.Report(sorted, sources, reporter.ReportMetadata{
		FilesScanned: len(files),
		RulesEnabled: rulesEnabled,
		Severities:   severities,
	}); err != nil {
		return cli.Exit(fmt.Sprintf("writing report: %v", err), ExitRuntimeError)
	}

	if failLevel != rules.SeverityOff && worstSeen >= failLevel {
		return cli.Exit("", ExitLintIssues)
	}
	return nil
}

// colorOption turns --no-color into the reporter's tri-state Color option:
// nil lets the reporter auto-detect a TTY, a set pointer forces the choice.
func colorOption(cmd *cli.Command) *bool {
	if !cmd.IsSet("no-color") {
		return nil
	}
	enabled := !cmd.Bool("no-color")
	return &enabled
}

// logrusChannel adapts internal/linter.Channel to logrus for the CLI's own
// top-level diagnostics.
type logrusChannel struct{}

func (logrusChannel) Log(level linter.Level, msg string) {
	switch level {
	case linter.LevelError:
		logrus.Error(msg)
	case linter.LevelWarn:
		logrus.Warn(msg)
	case linter.LevelInfo:
		logrus.Info(msg)
	default:
		logrus.Debug(msg)
	}
}

func (logrusChannel) Progress(string, int) {}

func (logrusChannel) Warn(msg string) { logrus.Warn(msg) }
