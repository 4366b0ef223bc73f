// Package md033 implements the no-inline-html rule: disallow HTML tags
// (except an allow-listed set) appearing in inline content or HTML blocks.
// A regex over the node's raw text locates tags, closing tags are skipped,
// and matches inside a balanced-backtick code span are excluded.
package md033

import (
	"fmt"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD033"
	alias = "no-inline-html"
)

// Settings is MD033's configuration.
type Settings struct {
	AllowedElements []string `koanf:"allowed_elements"`
}

// DefaultSettings returns MD033's default configuration.
func DefaultSettings() Settings {
	return Settings{}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"html"},
		Description:       "Inline HTML",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"inline", "html_block"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allowed_elements": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx        rules.Context
	allowed    map[string]bool
	violations []rules.Violation
}

// New constructs the MD033 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	allowed := make(map[string]bool, len(cfg.AllowedElements))
	for _, e := range cfg.AllowedElements {
		allowed[strings.ToLower(e)] = true
	}
	return &analyzer{ctx: ctx, allowed: allowed}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "inline" && n.Kind() != "html_block" {
		return
	}

	text := mdutil.Text(a.ctx.Source(), n)
	codeSpans := mdutil.CodeSpanRanges(text)

	for _, m := range mdutil.HTMLTagPattern.FindAllStringSubmatchIndex(text, -1) {
		fullStart, fullEnd := m[0], m[1]
		isClosing := m[3] > m[2] // group 1 (the "/") matched
		name := text[m[4]:m[5]]

		if isClosing {
			continue
		}
		if mdutil.InRange(codeSpans, fullStart) {
			continue
		}
		if a.allowed[strings.ToLower(name)] {
			continue
		}

		a.violate(n, text, fullStart, fullEnd, name)
	}
}

func (a *analyzer) violate(n cst.Node, text string, start, end int, name string) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	msg := fmt.Sprintf("Inline HTML [Element: %s]", name)
	startPt := mdutil.OffsetPoint(n, text, start)
	endPt := mdutil.OffsetPoint(n, text, end)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
