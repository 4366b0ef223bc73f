// Package linter provides the shared lint pipeline used by both the CLI and
// the LSP server.
//
// The pipeline: config resolution -> parse -> multi-rule analysis
// (internal/engine) -> violation collection. Callers use [LintFile] to run
// the pipeline; [LintFile] itself owns no filtering or sorting beyond what
// internal/engine.Analyse already guarantees (severity-off exclusion,
// position-ordered output) — there is no separate processor stage.
package linter

import (
	"fmt"
	"os"

	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/engine"
	"github.com/ekropotin/quickmark-go/internal/markdown"
	"github.com/ekropotin/quickmark-go/internal/rules"
	_ "github.com/ekropotin/quickmark-go/internal/rules/allrules" // register all built-in rules
)

// Level is a log level for the [Channel] interface.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Channel receives diagnostic output from the lint pipeline.
// Implementations map to environment-specific UX (LSP notifications, CLI
// stderr, etc.). A nil Channel means output is discarded.
type Channel interface {
	Log(level Level, msg string)
	Progress(title string, pct int) // -1 = indeterminate
	Warn(msg string)
}

// Input configures a single invocation of [LintFile].
type Input struct {
	// FilePath is used for config discovery and violation locations.
	FilePath string

	// Content is the file content to lint. If nil, LintFile reads from FilePath.
	Content []byte

	// Config is the resolved configuration. If nil, LintFile resolves one
	// via config.LoadOrDefault(FilePath, WorkspaceRoot).
	Config *config.Configuration

	// WorkspaceRoot bounds upward config discovery when Config is nil.
	WorkspaceRoot string

	// Channel receives progress and diagnostic output. Nil means silent.
	Channel Channel
}

// Result contains the output of [LintFile].
type Result struct {
	// Violations are the violations produced by the analysis, already
	// position-ordered by internal/engine.Analyse.
	Violations []rules.Violation

	// Config is the resolved config (loaded or passed in via Input).
	Config *config.Configuration
}

func logTo(ch Channel, level Level, format string, args ...any) {
	if ch == nil {
		return
	}
	ch.Log(level, fmt.Sprintf(format, args...))
}

func progress(ch Channel, title string, pct int) {
	if ch == nil {
		return
	}
	ch.Progress(title, pct)
}

// LintFile runs the full lint pipeline for one document.
func LintFile(input Input) (*Result, error) {
	content := input.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(input.FilePath)
		if err != nil {
			return nil, fmt.Errorf("linter: read %s: %w", input.FilePath, err)
		}
	}

	cfg := input.Config
	if cfg == nil {
		cfg = config.LoadOrDefault(input.FilePath, input.WorkspaceRoot)
	}

	parser, err := markdown.NewParser()
	if err != nil {
		return nil, fmt.Errorf("linter: create parser: %w", err)
	}
	defer parser.Close()

	logTo(input.Channel, LevelDebug, "linting %s", input.FilePath)
	progress(input.Channel, input.FilePath, 0)

	violations, err := engine.Analyse(rules.DefaultRegistry(), parser, input.FilePath, content, cfg)
	if err != nil {
		return nil, fmt.Errorf("linter: analyse %s: %w", input.FilePath, err)
	}

	progress(input.Channel, input.FilePath, 100)

	return &Result{
		Violations: violations,
		Config:     cfg,
	}, nil
}
