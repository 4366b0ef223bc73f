// Package md055 implements the table-pipe-style rule: every row of a table,
// including its delimiter row, must consistently have (or omit) leading and
// trailing pipes. Under "consistent", the first row of the document's first
// table sets the expectation for every row of every table.
package md055

import (
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD055"
	alias = "table-pipe-style"
)

// Settings is MD055's configuration.
type Settings struct {
	Style string `koanf:"style"`
}

// DefaultSettings returns MD055's default configuration.
func DefaultSettings() Settings {
	return Settings{Style: "consistent"}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"table"},
		Description:       "Table pipe style",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"pipe_table"},
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
					"consistent", "leading_and_trailing", "leading_only",
					"trailing_only", "no_leading_or_trailing",
				},
			},
		},
		"additionalProperties": false,
	}
}

type style struct {
	leading, trailing bool
}

type analyzer struct {
	ctx             rules.Context
	cfg             Settings
	firstTableStyle *style
	violations      []rules.Violation
}

// New constructs the MD055 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "pipe_table" {
		return
	}

	var rows []cst.Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "pipe_table_header", "pipe_table_row", "pipe_table_delimiter_row":
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return
	}

	expected := a.expectedStyle(rows[0])
	for _, row := range rows {
		a.checkRow(row, expected)
	}
}

func (a *analyzer) expectedStyle(firstRow cst.Node) style {
	switch a.cfg.Style {
	case "leading_and_trailing":
		return style{true, true}
	case "leading_only":
		return style{true, false}
	case "trailing_only":
		return style{false, true}
	case "no_leading_or_trailing":
		return style{false, false}
	default: // consistent
		if a.firstTableStyle != nil {
			return *a.firstTableStyle
		}
		text := strings.TrimSpace(mdutil.Text(a.ctx.Source(), firstRow))
		s := style{
			leading:  strings.HasPrefix(text, "|"),
			trailing: strings.HasSuffix(text, "|") && len(text) > 1,
		}
		a.firstTableStyle = &s
		return s
	}
}

func (a *analyzer) checkRow(row cst.Node, expected style) {
	rowText := mdutil.Text(a.ctx.Source(), row)
	leadingWS := len(rowText) - len(strings.TrimLeft(rowText, " \t"))
	trimmed := strings.TrimSpace(rowText)

	actualLeading := strings.HasPrefix(trimmed, "|")
	actualTrailing := strings.HasSuffix(trimmed, "|") && len(trimmed) > 1

	if expected.leading != actualLeading {
		msg := "Missing leading pipe"
		if !expected.leading {
			msg = "Unexpected leading pipe"
		}
		a.violate(row, rowText, msg, leadingWS)
	}

	if expected.trailing != actualTrailing {
		msg := "Missing trailing pipe"
		if !expected.trailing {
			msg = "Unexpected trailing pipe"
		}
		pos := leadingWS + len(trimmed)
		if actualTrailing {
			pos = leadingWS + len(trimmed) - 1
		}
		a.violate(row, rowText, msg, pos)
	}
}

func (a *analyzer) violate(row cst.Node, rowText, message string, columnOffset int) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	startPt := mdutil.OffsetPoint(row, rowText, columnOffset)
	endOffset := columnOffset + 1
	if endOffset > len(rowText) {
		endOffset = len(rowText)
	}
	endPt := mdutil.OffsetPoint(row, rowText, endOffset)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), "Table pipe style ["+message+"]", rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
