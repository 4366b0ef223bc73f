// Package md013 implements the line-length rule: lines should not exceed a
// configured limit, with separate limits for headings and code blocks and a
// handful of exceptions for unbreakable content.
package md013

import (
	"fmt"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

const (
	id    = "MD013"
	alias = "line-length"
)

// Settings is MD013's configuration. The block toggles are pointers so an
// explicit `false` survives the zero-value merge in configutil.Resolve;
// nil means the default (checked).
type Settings struct {
	LineLength          int   `koanf:"line_length"`
	CodeBlockLineLength int   `koanf:"code_block_line_length"`
	HeadingLineLength   int   `koanf:"heading_line_length"`
	CodeBlocks          *bool `koanf:"code_blocks"`
	Headings            *bool `koanf:"headings"`
	Tables              *bool `koanf:"tables"`
	Strict              bool  `koanf:"strict"`
	Stern               bool  `koanf:"stern"`
}

// DefaultSettings returns MD013's default configuration.
func DefaultSettings() Settings {
	return Settings{
		LineLength:          80,
		CodeBlockLineLength: 80,
		HeadingLineLength:   80,
	}
}

func enabled(v *bool) bool {
	return v == nil || *v
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"line_length"},
		Description:       "Line length should not exceed the configured limit",
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
			"line_length":            map[string]any{"type": "integer", "minimum": 1},
			"code_block_line_length": map[string]any{"type": "integer", "minimum": 1},
			"heading_line_length":    map[string]any{"type": "integer", "minimum": 1},
			"code_blocks":            map[string]any{"type": "boolean"},
			"headings":               map[string]any{"type": "boolean"},
			"tables":                 map[string]any{"type": "boolean"},
			"strict":                 map[string]any{"type": "boolean"},
			"stern":                  map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

type analyzer struct {
	ctx rules.Context
	cfg Settings
}

// New constructs the MD013 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {}

func (a *analyzer) Finalize() []rules.Violation {
	var violations []rules.Violation
	ref := rules.RuleRef{ID: id, Alias: alias}

	for i := 0; i < a.ctx.LineCount(); i++ {
		line := a.ctx.Line(i)
		kind := a.ctx.LeafKindAt(i)

		// strict and stern both check every line regardless of block
		// context; only default mode respects the headings/code_blocks/
		// tables toggles.
		if !a.cfg.Strict && !a.cfg.Stern {
			if a.isHeadingLine(line) && !enabled(a.cfg.Headings) {
				continue
			}
			if !a.shouldCheckNodeKind(kind) {
				continue
			}
		}

		limit := a.lineLimit(kind)
		if len(line) <= limit {
			continue
		}
		if isLinkReferenceDefinition(line) || isStandaloneLinkOrImage(line) {
			continue
		}

		violate := false
		switch {
		case a.cfg.Strict:
			violate = true
		case a.cfg.Stern:
			violate = !hasNoSpacesBeyondLimit(line, limit)
		default:
			violate = !hasNoSpacesBeyondLimit(line, limit)
		}

		if violate {
			msg := fmt.Sprintf("Line length should not exceed the configured limit [Expected: <= %d; Actual: %d]", limit, len(line))
			violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.LineRange(a.ctx, i, 0, len(line))))
		}
	}
	return violations
}

func (a *analyzer) shouldCheckNodeKind(kind string) bool {
	switch {
	case isHeadingKind(kind):
		return enabled(a.cfg.Headings)
	case kind == "fenced_code_block" || kind == "indented_code_block" || kind == "code_fence_content":
		return enabled(a.cfg.CodeBlocks)
	case kind == "pipe_table" || kind == "pipe_table_header" || kind == "pipe_table_row" || kind == "pipe_table_delimiter_row":
		return enabled(a.cfg.Tables)
	default:
		return true
	}
}

func (a *analyzer) lineLimit(kind string) int {
	switch {
	case isHeadingKind(kind):
		return a.cfg.HeadingLineLength
	case kind == "fenced_code_block" || kind == "indented_code_block" || kind == "code_fence_content":
		return a.cfg.CodeBlockLineLength
	default:
		return a.cfg.LineLength
	}
}

func isHeadingKind(kind string) bool {
	return kind == "atx_heading" || kind == "setext_heading" ||
		strings.HasPrefix(kind, "atx_h") && strings.HasSuffix(kind, "_marker") ||
		strings.HasPrefix(kind, "setext_h") && strings.HasSuffix(kind, "_underline")
}

func (a *analyzer) isHeadingLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "#") && len(trimmed) > 1 && trimmed[1] == ' '
}

func isLinkReferenceDefinition(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "[") && strings.Contains(line, "]:") && strings.Contains(line, "http")
}

func isStandaloneLinkOrImage(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "[") && strings.Contains(trimmed, "](") && strings.HasSuffix(trimmed, ")") {
		return true
	}
	if strings.HasPrefix(trimmed, "![") && strings.Contains(trimmed, "](") && strings.HasSuffix(trimmed, ")") {
		return true
	}
	return false
}

func hasNoSpacesBeyondLimit(line string, limit int) bool {
	if len(line) <= limit {
		return false
	}
	return !strings.Contains(line[limit:], " ")
}
