// Package md009 implements the trailing-spaces rule: trailing whitespace
// at the end of a line is only allowed as a configured hard-break marker.
package md009

import (
	"fmt"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

const (
	id    = "MD009"
	alias = "trailing-spaces"
)

// Settings is MD009's configuration.
type Settings struct {
	BrSpaces           int  `koanf:"br_spaces"`
	ListItemEmptyLines bool `koanf:"list_item_empty_lines"`
	Strict             bool `koanf:"strict"`
}

// DefaultSettings returns MD009's default configuration.
func DefaultSettings() Settings {
	return Settings{BrSpaces: 2}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"whitespace"},
		Description:       "Trailing spaces",
		RuleType:          rules.RuleTypeHybrid,
		RequiredNodeKinds: nil,
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"br_spaces":             map[string]any{"type": "integer", "minimum": 0},
			"list_item_empty_lines": map[string]any{"type": "boolean"},
			"strict":                map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx rules.Context
	cfg Settings
}

// New constructs the MD009 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {}

func (a *analyzer) Finalize() []rules.Violation {
	expected := a.cfg.BrSpaces
	if expected < 2 {
		expected = 0
	}

	codeBlockLines := rules.CodeBlockLines(a.ctx)
	var listEmptyLines map[int]bool
	if a.cfg.ListItemEmptyLines {
		listEmptyLines = a.listItemEmptyLines()
	}

	var violations []rules.Violation
	ref := rules.RuleRef{ID: id, Alias: alias}

	for i := 0; i < a.ctx.LineCount(); i++ {
		line := a.ctx.Line(i)
		trimmed := strings.TrimRight(line, " \t")
		trailing := len(line) - len(trimmed)
		if trailing == 0 {
			continue
		}
		if codeBlockLines[i] || (listEmptyLines != nil && listEmptyLines[i]) {
			continue
		}

		followedByBlank := false
		if i+1 < a.ctx.LineCount() {
			followedByBlank = strings.TrimSpace(a.ctx.Line(i+1)) == ""
		}

		if !a.shouldViolate(trailing, expected, followedByBlank) {
			continue
		}

		var msg string
		if expected == 0 {
			msg = fmt.Sprintf("Trailing spaces [Expected: 0 trailing spaces; Actual: %d]", trailing)
		} else {
			msg = fmt.Sprintf("Trailing spaces [Expected: 0 or %d trailing spaces; Actual: %d]", expected, trailing)
		}

		violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.LineRange(a.ctx, i, len(trimmed), len(line))))
	}
	return violations
}

func (a *analyzer) shouldViolate(trailing, expected int, followedByBlank bool) bool {
	if a.cfg.Strict {
		if a.cfg.BrSpaces >= 2 && trailing == a.cfg.BrSpaces && followedByBlank {
			return false
		}
		return true
	}
	return trailing != expected
}

func (a *analyzer) listItemEmptyLines() map[int]bool {
	result := make(map[int]bool)
	for _, rec := range a.ctx.NodesOfKind("list") {
		for line := rec.StartLine; line <= rec.EndLine; line++ {
			if line >= 0 && line < a.ctx.LineCount() && strings.TrimSpace(a.ctx.Line(line)) == "" {
				result[line] = true
			}
		}
	}
	return result
}
