// Package md027 implements the no-multiple-space-blockquote rule: hybrid
// line scanning with AST-derived exclusion of code and HTML blocks.
package md027

import (
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

const (
	id    = "MD027"
	alias = "no-multiple-space-blockquote"
)

// Settings is MD027's configuration. ListItems is a pointer so an explicit
// `false` survives the zero-value merge in configutil.Resolve; nil means the
// default (true).
type Settings struct {
	ListItems *bool `koanf:"list_items"`
}

// DefaultSettings returns MD027's default configuration.
func DefaultSettings() Settings {
	return Settings{}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"blockquote", "whitespace", "indentation"},
		Description:       "Multiple spaces after blockquote symbol",
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
			"list_items": map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx rules.Context
	cfg Settings
}

// New constructs the MD027 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {}

func (a *analyzer) Finalize() []rules.Violation {
	excluded := rules.CodeBlockLines(a.ctx)
	for l := range rules.HTMLBlockLines(a.ctx) {
		excluded[l] = true
	}

	var violations []rules.Violation
	ref := rules.RuleRef{ID: id, Alias: alias}

	for i := 0; i < a.ctx.LineCount(); i++ {
		if excluded[i] {
			continue
		}
		if start, end, ok := a.checkLine(a.ctx.Line(i)); ok {
			violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), "Multiple spaces after blockquote symbol", rules.LineRange(a.ctx, i, start, end)))
		}
	}
	return violations
}

func (a *analyzer) checkLine(line string) (start, end int, ok bool) {
	leading := len(line) - len(strings.TrimLeft(line, " \t"))
	current := strings.TrimLeft(line, " \t")
	offset := leading

	for strings.HasPrefix(current, ">") {
		afterGT := current[1:]

		if strings.HasPrefix(afterGT, "  ") {
			spaceCount := 0
			for spaceCount < len(afterGT) && afterGT[spaceCount] == ' ' {
				spaceCount++
			}

			if a.cfg.ListItems != nil && !*a.cfg.ListItems && isListItemContent(afterGT) {
				return 0, 0, false
			}

			startCol := offset + 2
			endCol := startCol + spaceCount - 2
			return startCol, endCol, true
		}

		current = current[1:]
		offset++
		if strings.HasPrefix(current, " ") {
			current = current[1:]
			offset++
		}
		if !strings.HasPrefix(current, ">") {
			break
		}
	}
	return 0, 0, false
}

func isListItemContent(content string) bool {
	trimmed := strings.TrimLeft(content, " \t")
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '-' || trimmed[0] == '+' || trimmed[0] == '*' {
		return len(trimmed) > 1 && isSpace(trimmed[1])
	}
	if isOrderedListMarker(trimmed, '.') || isOrderedListMarker(trimmed, ')') {
		return true
	}
	return false
}

func isOrderedListMarker(text string, delimiter byte) bool {
	pos := strings.IndexByte(text, delimiter)
	if pos <= 0 {
		return false
	}
	prefix := text[:pos]
	allDigits := true
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			allDigits = false
			break
		}
	}
	isSingleAlpha := len(prefix) == 1 && isAlpha(prefix[0])
	if !allDigits && !isSingleAlpha {
		return false
	}
	return pos+1 < len(text) && isSpace(text[pos+1])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
