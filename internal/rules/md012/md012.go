// Package md012 implements the no-multiple-blanks rule: consecutive blank
// lines beyond a configured maximum are violations, one per excess line.
package md012

import (
	"fmt"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

const (
	id    = "MD012"
	alias = "no-multiple-blanks"
)

// Settings is MD012's configuration.
type Settings struct {
	Maximum int `koanf:"maximum"`
}

// DefaultSettings returns MD012's default configuration.
func DefaultSettings() Settings {
	return Settings{Maximum: 1}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"whitespace", "blank_lines"},
		Description:       "Multiple consecutive blank lines",
		RuleType:          rules.RuleTypeLine,
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
			"maximum": map[string]any{"type": "integer", "minimum": 1},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx rules.Context
	cfg Settings
}

// New constructs the MD012 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {}

func (a *analyzer) Finalize() []rules.Violation {
	mask := a.codeBlockMask()

	var violations []rules.Violation
	ref := rules.RuleRef{ID: id, Alias: alias}
	consecutive := 0

	for i := 0; i < a.ctx.LineCount(); i++ {
		isBlank := strings.TrimSpace(a.ctx.Line(i)) == ""
		if isBlank && !mask[i] {
			consecutive++
			if consecutive > a.cfg.Maximum {
				msg := fmt.Sprintf("Multiple consecutive blank lines [Expected: %d or fewer; Actual: %d]", a.cfg.Maximum, consecutive)
				violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.LineRange(a.ctx, i, 0, 0)))
			}
		} else {
			consecutive = 0
		}
	}
	return violations
}

// codeBlockMask works around a tree-sitter-markdown closing-fence quirk: a
// blank line immediately after a closing fence is excluded from the fenced
// block it was mis-attributed to.
func (a *analyzer) codeBlockMask() []bool {
	mask := make([]bool, a.ctx.LineCount())

	for _, rec := range a.ctx.NodesOfKind("indented_code_block") {
		for line := rec.StartLine; line <= rec.EndLine && line < len(mask); line++ {
			mask[line] = true
		}
	}

	for _, rec := range a.ctx.NodesOfKind("fenced_code_block") {
		end := rec.EndLine
		if end < a.ctx.LineCount() && strings.TrimSpace(a.ctx.Line(end)) == "" {
			prev := end - 1
			if prev >= 0 && strings.HasPrefix(strings.TrimSpace(a.ctx.Line(prev)), "```") {
				end--
			}
		}
		for line := rec.StartLine; line <= end && line < len(mask); line++ {
			mask[line] = true
		}
	}

	return mask
}
