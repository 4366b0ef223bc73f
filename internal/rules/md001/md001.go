// Package md001 implements the heading-increment rule: headings should
// only ever step down by one level at a time.
package md001

import (
	"fmt"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD001"
	alias = "heading-increment"
)

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"headings"},
		Description:       "Heading levels should only increment by one level at a time",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"atx_heading", "setext_heading"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
	})
}

type analyzer struct {
	ctx          rules.Context
	currentLevel int
	violations   []rules.Violation
}

// New constructs the MD001 analyser.
func New(ctx rules.Context) rules.Analyzer {
	return &analyzer{ctx: ctx}
}

func (a *analyzer) Feed(n cst.Node) {
	level, ok := mdutil.HeadingLevel(n)
	if !ok {
		return
	}

	if a.currentLevel > 0 && level-a.currentLevel > 1 {
		ref := rules.RuleRef{ID: id, Alias: alias}
		msg := fmt.Sprintf("Heading levels should only increment by one level at a time [Expected: h%d; Actual: h%d]",
			a.currentLevel+1, level)
		a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, n)))
	}
	a.currentLevel = level
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
