// Package md021 implements the no-multiple-space-closed-atx rule: a closed
// ATX heading ("# Title #") must not have more than one space between the
// hash markers and the heading text on either side.
package md021

import (
	"fmt"
	"regexp"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
)

const (
	id    = "MD021"
	alias = "no-multiple-space-closed-atx"
)

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"headings", "atx_closed", "spaces"},
		Description:       "Multiple spaces inside hashes on closed atx style heading",
		RuleType:          rules.RuleTypeLine,
		RequiredNodeKinds: nil,
		DefaultSeverity:   rules.SeverityError,
		New:               New,
	})
}

// closedATX matches closed ATX headings, excluding escaped closing hashes.
var closedATX = regexp.MustCompile(`^(#+)([ \t]*)([^# \t\\]|[^# \t][^#]*?[^# \t\\])([ \t]*)(#+)(\s*)$`)

type analyzer struct {
	ctx rules.Context
}

// New constructs the MD021 analyser.
func New(ctx rules.Context) rules.Analyzer {
	return &analyzer{ctx: ctx}
}

func (a *analyzer) Feed(n cst.Node) {}

func (a *analyzer) Finalize() []rules.Violation {
	ignore := a.ignoreLines()

	var violations []rules.Violation
	for i := 0; i < a.ctx.LineCount(); i++ {
		if ignore[i] {
			continue
		}
		violations = append(violations, a.checkLine(a.ctx.Line(i), i)...)
	}
	return violations
}

func (a *analyzer) ignoreLines() []bool {
	ignore := make([]bool, a.ctx.LineCount())
	for _, kind := range []string{"fenced_code_block", "indented_code_block", "html_block"} {
		for _, rec := range a.ctx.NodesOfKind(kind) {
			for line := rec.StartLine; line <= rec.EndLine && line < len(ignore); line++ {
				ignore[line] = true
			}
		}
	}
	return ignore
}

func (a *analyzer) checkLine(line string, lineIndex int) []rules.Violation {
	m := closedATX.FindStringSubmatchIndex(line)
	if m == nil {
		return nil
	}

	ref := rules.RuleRef{ID: id, Alias: alias}
	var violations []rules.Violation

	openingStart, openingEnd := m[4], m[5]
	openingSpaces := openingEnd - openingStart
	if openingSpaces > 1 {
		msg := fmt.Sprintf("Multiple spaces inside hashes on closed atx style heading [Expected: 1; Actual: %d]", openingSpaces)
		violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.LineRange(a.ctx, lineIndex, openingStart+2, openingStart+3)))
	}

	closingStart, closingEnd := m[8], m[9]
	closingSpaces := closingEnd - closingStart
	if closingSpaces > 1 {
		msg := fmt.Sprintf("Multiple spaces inside hashes on closed atx style heading [Expected: 1; Actual: %d]", closingSpaces)
		violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.LineRange(a.ctx, lineIndex, closingStart+2, closingStart+3)))
	}

	return violations
}
