// Package md003 implements the heading-style rule: ATX, closed-ATX, and
// Setext headings should not be mixed within a document, according to a
// configured style.
package md003

import (
	"fmt"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD003"
	alias = "heading-style"
)

// Style is a heading's observed rendering.
type Style string

const (
	styleSetext    Style = "setext"
	styleATX       Style = "atx"
	styleATXClosed Style = "atx_closed"
)

// Settings is MD003's configuration: the style every heading must match.
type Settings struct {
	Style string `koanf:"style"`
}

// DefaultSettings returns MD003's default configuration.
func DefaultSettings() Settings {
	return Settings{Style: "consistent"}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"headings"},
		Description:       "Heading style",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"atx_heading", "setext_heading"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"style": map[string]any{
				"type": "string",
				"enum": []any{
					"consistent", "atx", "atx_closed",
					"setext", "setext_with_atx", "setext_with_atx_closed",
				},
			},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx           rules.Context
	cfg           Settings
	enforcedStyle Style
	haveEnforced  bool
	violations    []rules.Violation
}

// New constructs the MD003 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {
	var style Style
	switch n.Kind() {
	case "atx_heading":
		if mdutil.IsClosedATX(a.ctx.Source(), n) {
			style = styleATXClosed
		} else {
			style = styleATX
		}
	case "setext_heading":
		style = styleSetext
	default:
		return
	}

	level, _ := mdutil.HeadingLevel(n)

	switch a.cfg.Style {
	case "setext_with_atx":
		if level <= 2 {
			if style != styleSetext {
				a.violate(n, "setext", style)
			}
		} else if style != styleATX {
			a.violate(n, "atx", style)
		}
	case "setext_with_atx_closed":
		if level <= 2 {
			if style != styleSetext {
				a.violate(n, "setext", style)
			}
		} else if style != styleATXClosed {
			a.violate(n, "atx_closed", style)
		}
	default:
		enforced, ok := singleStyle(a.cfg.Style)
		if !ok {
			// consistent: the first heading fixes the style.
			if a.haveEnforced {
				enforced = a.enforcedStyle
			} else {
				a.enforcedStyle = style
				a.haveEnforced = true
				return
			}
		}
		if style != enforced {
			a.violate(n, string(enforced), style)
		}
	}
}

func singleStyle(configured string) (Style, bool) {
	switch configured {
	case "atx":
		return styleATX, true
	case "setext":
		return styleSetext, true
	case "atx_closed":
		return styleATXClosed, true
	default:
		return "", false
	}
}

func (a *analyzer) violate(n cst.Node, expected string, actual Style) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	msg := fmt.Sprintf("Heading style [Expected: %s; Actual: %s]", expected, actual)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, n)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
